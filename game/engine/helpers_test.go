package engine

import (
	"reflect"
	"testing"
)

func up(s Suit, r Rank) Card   { return Card{Suit: s, Rank: r, FaceUp: true} }
func down(s Suit, r Rank) Card { return Card{Suit: s, Rank: r} }

func createTestConfig(variant Variant) *GameConfig {
	config := DefaultConfig(variant)
	config.Name = "Engine Test " + string(variant)
	config.Description = "Configuration for engine tests"
	return config
}

func mustRules(t *testing.T, config *GameConfig) RuleSet {
	t.Helper()
	rs, err := NewRuleSet(config)
	if err != nil {
		t.Fatalf("NewRuleSet failed: %v", err)
	}
	return rs
}

// emptyState returns a layout with every zone present and empty
func emptyState(rs RuleSet) *GameState {
	gs := &GameState{
		Variant:     rs.Variant(),
		FreeCells:   make([]*Card, rs.FreeCellCount()),
		Foundations: emptyFoundations(),
		Tableaus:    make([][]Card, rs.TableauCount()),
		Stock:       []Card{},
		Waste:       []Card{},
	}
	for i := range gs.Tableaus {
		gs.Tableaus[i] = []Card{}
	}
	return gs
}

// buildFoundation fills the foundation for suit with Ace..upTo-1
func buildFoundation(gs *GameState, suit Suit, height int) {
	idx := suit.Index()
	gs.Foundations[idx] = gs.Foundations[idx][:0]
	for r := 0; r < height; r++ {
		gs.Foundations[idx] = append(gs.Foundations[idx], up(suit, Rank(r)))
	}
}

// nearlyWonFreeCell leaves the four kings out: K♠ and K♥ on cascades,
// K♦ in a free cell and K♣ on cascade 7
func nearlyWonFreeCell(rs RuleSet) *GameState {
	gs := emptyState(rs)
	for _, s := range Suits {
		buildFoundation(gs, s, 12)
	}
	gs.Tableaus[0] = []Card{up(Spades, King)}
	gs.Tableaus[1] = []Card{up(Hearts, King)}
	kd := up(Diamonds, King)
	gs.FreeCells[2] = &kd
	gs.Tableaus[7] = []Card{up(Clubs, King)}
	return gs
}

func assertStateEqual(t *testing.T, want, got *GameState) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("state mismatch\nwant: %+v\ngot:  %+v", want, got)
	}
}
