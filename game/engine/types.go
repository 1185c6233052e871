package engine

import (
	"fmt"
	"strings"
)

// Variant names a solitaire rule set
type Variant string

const (
	FreeCell Variant = "freecell"
	Klondike Variant = "klondike"
)

// ZoneKind represents the different places a card can sit
type ZoneKind string

const (
	ZoneFreeCell   ZoneKind = "freecell"
	ZoneFoundation ZoneKind = "foundation"
	ZoneTableau    ZoneKind = "tableau"
	ZoneStock      ZoneKind = "stock"
	ZoneWaste      ZoneKind = "waste"

	// Layout and validation constants
	DeckSize            = 52
	RanksPerSuit        = 13
	FreeCellSlots       = 4
	FreeCellCascades    = 8
	KlondikeTableaus    = 7
	MaxUndoLimit        = 10000
	MaxAutoSolveDelayMS = 5000
	DefaultAutoSolveMS  = 200
	WebSocketBufferSize = 256
)

// ParseZone maps user input onto a zone kind. "cascade" and "cell" are
// accepted as FreeCell spellings.
func ParseZone(value string) (ZoneKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "freecell", "free_cell", "cell":
		return ZoneFreeCell, nil
	case "foundation":
		return ZoneFoundation, nil
	case "tableau", "cascade":
		return ZoneTableau, nil
	case "stock":
		return ZoneStock, nil
	case "waste":
		return ZoneWaste, nil
	}
	return "", fmt.Errorf("%w: unknown zone %q", ErrInvalidLocation, value)
}

// Location addresses a zone instance and, for tableau sources, the index of
// the first card of the unit to lift. A negative CardIndex means the top card.
type Location struct {
	Zone      ZoneKind `json:"zone"`
	Index     int      `json:"index"`
	CardIndex int      `json:"card_index"`
}

// Top addresses the top card of a zone instance
func Top(zone ZoneKind, index int) Location {
	return Location{Zone: zone, Index: index, CardIndex: -1}
}

// At addresses a tableau run starting at cardIndex
func At(zone ZoneKind, index, cardIndex int) Location {
	return Location{Zone: zone, Index: index, CardIndex: cardIndex}
}

func (l Location) String() string {
	if l.Zone == ZoneTableau && l.CardIndex >= 0 {
		return fmt.Sprintf("%s[%d]@%d", l.Zone, l.Index, l.CardIndex)
	}
	return fmt.Sprintf("%s[%d]", l.Zone, l.Index)
}

// sameZone reports whether both locations name the same zone instance
func (l Location) sameZone(other Location) bool {
	return l.Zone == other.Zone && l.Index == other.Index
}

// Messages holds the user-facing text a config can override
type Messages struct {
	Welcome        string `json:"welcome"`
	Victory        string `json:"victory"`
	IllegalMove    string `json:"illegal_move"`
	Undo           string `json:"undo"`
	NothingToUndo  string `json:"nothing_to_undo"`
	StockRecycled  string `json:"stock_recycled"`
	AutoSolveStuck string `json:"auto_solve_stuck"`
}

// GameConfig represents a variant configuration loaded from JSON
type GameConfig struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Variant          Variant  `json:"variant"`
	SingleCardMoves  bool     `json:"single_card_moves"`
	AutoSolveDelayMS int      `json:"auto_solve_delay_ms"`
	MaxUndo          int      `json:"max_undo"`
	Messages         Messages `json:"messages"`
}

// GameState is the complete, serializable state of one deal.
// FreeCells holds nil for an empty slot. Foundations are indexed by Suits.
type GameState struct {
	GameID      string   `json:"game_id"`
	Variant     Variant  `json:"variant"`
	ConfigName  string   `json:"config_name"`
	Seed        int64    `json:"seed"`
	FreeCells   []*Card  `json:"free_cells"`
	Foundations [][]Card `json:"foundations"`
	Tableaus    [][]Card `json:"tableaus"`
	Stock       []Card   `json:"stock"`
	Waste       []Card   `json:"waste"`
	MoveCount   int      `json:"move_count"`
	Won         bool     `json:"won"`
	Message     string   `json:"message"`
}

// MoveRecord represents a single applied action in the move log
type MoveRecord struct {
	Action     string    `json:"action"`
	From       *Location `json:"from,omitempty"`
	To         *Location `json:"to,omitempty"`
	Cards      []Card    `json:"cards,omitempty"`
	Auto       bool      `json:"auto,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}

// Move is a legal (source, destination) pair
type Move struct {
	From  Location `json:"from"`
	To    Location `json:"to"`
	Cards int      `json:"cards"`
}

// Action names recorded in the move log
const (
	ActionMove    = "move"
	ActionDraw    = "draw"
	ActionRecycle = "recycle"
	ActionUndo    = "undo"
	ActionNewGame = "new_game"
)
