package engine

import "fmt"

// RuleSet captures everything that differs between variants. The zone model,
// move path and history are shared.
type RuleSet interface {
	Variant() Variant
	FreeCellCount() int
	TableauCount() int
	HasStock() bool

	// Deal lays out a full 52-card deck. It panics on any other deck size.
	Deal(deck []Card) *GameState

	// SingleCardOnly restricts tableau sources to the top card
	SingleCardOnly() bool

	// AcceptsOnEmptyTableau reports whether card may start an empty tableau
	AcceptsOnEmptyTableau(card Card) bool

	// MoveCapacity returns the largest unit that may be moved onto to.
	// A negative value means unlimited.
	MoveCapacity(gs *GameState, to Location) int

	// RevealOnExpose reports whether a face-down tableau card is turned
	// up when the cards above it leave
	RevealOnExpose() bool
}

// NewRuleSet builds the rule set a config describes
func NewRuleSet(config *GameConfig) (RuleSet, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	switch config.Variant {
	case FreeCell:
		return &freeCellRules{singleCard: config.SingleCardMoves}, nil
	case Klondike:
		return &klondikeRules{}, nil
	}
	return nil, fmt.Errorf("unknown variant %q", config.Variant)
}

func mustFullDeck(deck []Card) {
	if len(deck) != DeckSize {
		panic(fmt.Sprintf("engine: deal requires %d cards, got %d", DeckSize, len(deck)))
	}
}

func emptyFoundations() [][]Card {
	f := make([][]Card, len(Suits))
	for i := range f {
		f[i] = []Card{}
	}
	return f
}

type freeCellRules struct {
	singleCard bool
}

func (r *freeCellRules) Variant() Variant { return FreeCell }
func (r *freeCellRules) FreeCellCount() int { return FreeCellSlots }
func (r *freeCellRules) TableauCount() int { return FreeCellCascades }
func (r *freeCellRules) HasStock() bool { return false }
func (r *freeCellRules) SingleCardOnly() bool { return r.singleCard }
func (r *freeCellRules) RevealOnExpose() bool { return false }

func (r *freeCellRules) AcceptsOnEmptyTableau(Card) bool { return true }

// Deal round-robins the deck across the eight cascades, all face up
func (r *freeCellRules) Deal(deck []Card) *GameState {
	mustFullDeck(deck)

	tableaus := make([][]Card, FreeCellCascades)
	for i := range tableaus {
		tableaus[i] = make([]Card, 0, DeckSize/FreeCellCascades+1)
	}
	for k, card := range deck {
		card.FaceUp = true
		tableaus[k%FreeCellCascades] = append(tableaus[k%FreeCellCascades], card)
	}

	return &GameState{
		Variant:     FreeCell,
		FreeCells:   make([]*Card, FreeCellSlots),
		Foundations: emptyFoundations(),
		Tableaus:    tableaus,
		Stock:       []Card{},
		Waste:       []Card{},
	}
}

// MoveCapacity is the supermove bound. An empty destination cascade is not
// counted as free space.
func (r *freeCellRules) MoveCapacity(gs *GameState, to Location) int {
	if r.singleCard {
		return 1
	}
	emptyCells := EmptyFreeCells(gs)
	emptyCascades := 0
	for i, t := range gs.Tableaus {
		if len(t) == 0 && !(to.Zone == ZoneTableau && to.Index == i) {
			emptyCascades++
		}
	}
	return (1 + emptyCells) * (1 + emptyCascades)
}

type klondikeRules struct{}

func (r *klondikeRules) Variant() Variant { return Klondike }
func (r *klondikeRules) FreeCellCount() int { return 0 }
func (r *klondikeRules) TableauCount() int { return KlondikeTableaus }
func (r *klondikeRules) HasStock() bool { return true }
func (r *klondikeRules) SingleCardOnly() bool { return false }
func (r *klondikeRules) RevealOnExpose() bool { return true }

func (r *klondikeRules) AcceptsOnEmptyTableau(card Card) bool {
	return card.Rank == King
}

func (r *klondikeRules) MoveCapacity(*GameState, Location) int { return -1 }

// Deal builds the triangle row by row: pass i puts one card on each tableau
// j >= i, face up only on the diagonal. The remaining 24 cards form the stock.
func (r *klondikeRules) Deal(deck []Card) *GameState {
	mustFullDeck(deck)

	tableaus := make([][]Card, KlondikeTableaus)
	for i := range tableaus {
		tableaus[i] = make([]Card, 0, i+1)
	}
	next := 0
	for i := 0; i < KlondikeTableaus; i++ {
		for j := i; j < KlondikeTableaus; j++ {
			card := deck[next]
			card.FaceUp = j == i
			tableaus[j] = append(tableaus[j], card)
			next++
		}
	}

	stock := make([]Card, 0, DeckSize-next)
	for _, card := range deck[next:] {
		card.FaceUp = false
		stock = append(stock, card)
	}

	return &GameState{
		Variant:     Klondike,
		FreeCells:   []*Card{},
		Foundations: emptyFoundations(),
		Tableaus:    tableaus,
		Stock:       stock,
		Waste:       []Card{},
	}
}
