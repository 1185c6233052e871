package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	NewGame(seed int64) *GameState
	IsWon() bool

	// Movement operations
	RequestMove(from, to Location) error
	CanMove(from, to Location) bool
	Draw() error
	LegalDestinations(from Location) ([]Location, error)
	GetPossibleMoves() []Move

	// Undo
	Undo() bool
	CanUndo() bool

	// Auto-solve
	AutoStep() (*MoveRecord, bool)
	AutoSolve() int

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
	Rules() RuleSet

	// History
	GetMoveHistory() []MoveRecord
	GetLastMove() *MoveRecord
	Epoch() uint64
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access.
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	rules   RuleSet
	history *History
	moveLog []MoveRecord
	epoch   uint64
}

// NewEngine creates a new game engine with the provided configuration and a
// random deal
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithSeed(config, NewSeed())
}

// NewEngineWithSeed creates a new game engine whose first deal is reproducible
func NewEngineWithSeed(config *GameConfig, seed int64) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	rules, err := NewRuleSet(config)
	if err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config:  config,
		rules:   rules,
		history: NewHistory(config.MaxUndo),
	}
	engine.deal(seed)
	return engine, nil
}

// NewEngineWithDefaults creates a FreeCell engine from the built-in config
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultConfig(FreeCell))
	if err != nil {
		panic(fmt.Sprintf("engine: built-in config rejected: %v", err))
	}
	return engine
}

func (e *GameEngine) deal(seed int64) {
	e.state = InitGameStateFromConfig(e.config, e.rules, seed)
	e.history.Reset()
	e.epoch++
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state with a copy of state and clears undo history
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Variant != e.rules.Variant() {
		return fmt.Errorf("state variant %q does not match engine variant %q", state.Variant, e.rules.Variant())
	}
	if n := CountCards(state); n != DeckSize {
		return fmt.Errorf("state holds %d cards, want %d", n, DeckSize)
	}
	e.state = state.Clone()
	e.state.Won = IsWon(e.state)
	e.history.Reset()
	e.epoch++
	return nil
}

// NewGame deals a fresh game from seed, discarding history. The move log is
// kept across deals.
func (e *GameEngine) NewGame(seed int64) *GameState {
	e.deal(seed)
	e.record(MoveRecord{Action: ActionNewGame})
	return e.state
}

// IsWon reports whether every card is on the foundations
func (e *GameEngine) IsWon() bool {
	return IsWon(e.state)
}

// RequestMove validates and applies a move. On error the state is untouched.
func (e *GameEngine) RequestMove(from, to Location) error {
	return e.move(from, to, false)
}

func (e *GameEngine) move(from, to Location, auto bool) error {
	unit, err := ValidateMove(e.rules, e.state, from, to)
	if err != nil {
		return err
	}

	e.history.Push(e.state)
	cards := applyMove(e.rules, e.state, from, to, len(unit))

	e.state.Message = fmt.Sprintf("Moved %s to %s", describeCards(cards), to)
	if e.state.Won {
		e.state.Message = e.config.Messages.Victory
	}
	e.record(MoveRecord{Action: ActionMove, From: &from, To: &to, Cards: cards, Auto: auto})
	return nil
}

// CanMove reports whether RequestMove would succeed
func (e *GameEngine) CanMove(from, to Location) bool {
	_, err := ValidateMove(e.rules, e.state, from, to)
	return err == nil
}

// Draw clicks the stock: draw one card to the waste, or recycle the waste
// when the stock is empty
func (e *GameEngine) Draw() error {
	if err := validateDraw(e.rules, e.state); err != nil {
		return err
	}

	e.history.Push(e.state)
	action, err := drawFromStock(e.rules, e.state)
	if err != nil {
		return err
	}

	switch action {
	case ActionDraw:
		top := e.state.Waste[len(e.state.Waste)-1]
		e.state.Message = fmt.Sprintf("Drew %s", top)
		e.record(MoveRecord{Action: action, Cards: []Card{top}})
	case ActionRecycle:
		e.state.Message = e.config.Messages.StockRecycled
		e.record(MoveRecord{Action: action})
	}
	return nil
}

// LegalDestinations lists where the unit at from may go
func (e *GameEngine) LegalDestinations(from Location) ([]Location, error) {
	return LegalDestinations(e.rules, e.state, from)
}

// GetPossibleMoves returns every legal move in the current state
func (e *GameEngine) GetPossibleMoves() []Move {
	return PossibleMoves(e.rules, e.state)
}

// Undo restores the most recent snapshot. It reports false, changing nothing,
// when there is nothing to undo.
func (e *GameEngine) Undo() bool {
	prev, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.state = prev
	e.epoch++
	e.record(MoveRecord{Action: ActionUndo})
	return true
}

// CanUndo reports whether a snapshot is available
func (e *GameEngine) CanUndo() bool {
	return e.history.Len() > 0
}

// UndoDepth returns the number of snapshots available
func (e *GameEngine) UndoDepth() int {
	return e.history.Len()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig switches configuration and deals a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	rules, err := NewRuleSet(config)
	if err != nil {
		return err
	}

	e.config = config
	e.rules = rules
	e.history = NewHistory(config.MaxUndo)
	e.deal(NewSeed())
	return nil
}

// Rules returns the active rule set
func (e *GameEngine) Rules() RuleSet {
	return e.rules
}

// GetMoveHistory returns a copy of the cumulative move log
func (e *GameEngine) GetMoveHistory() []MoveRecord {
	out := make([]MoveRecord, len(e.moveLog))
	copy(out, e.moveLog)
	return out
}

// GetLastMove returns the last logged action, or nil if none
func (e *GameEngine) GetLastMove() *MoveRecord {
	if len(e.moveLog) == 0 {
		return nil
	}
	last := e.moveLog[len(e.moveLog)-1]
	return &last
}

// Epoch changes whenever the current line of play is replaced, by a new
// deal, an undo or SetState. Paced auto-solve stops when it changes.
func (e *GameEngine) Epoch() uint64 {
	return e.epoch
}

func (e *GameEngine) record(rec MoveRecord) {
	rec.Timestamp = time.Now().Unix()
	rec.MoveNumber = len(e.moveLog) + 1
	e.moveLog = append(e.moveLog, rec)
}

func describeCards(cards []Card) string {
	if len(cards) == 1 {
		return cards[0].String()
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// newGameID returns a unique id for a deal
func newGameID() string {
	return uuid.NewString()
}
