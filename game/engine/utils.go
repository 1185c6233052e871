package engine

import "slices"

// Clone returns a deep copy of the state. No slice or pointer is shared with gs.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs

	c.FreeCells = make([]*Card, len(gs.FreeCells))
	for i, card := range gs.FreeCells {
		if card != nil {
			cp := *card
			c.FreeCells[i] = &cp
		}
	}
	c.Foundations = clonePiles(gs.Foundations)
	c.Tableaus = clonePiles(gs.Tableaus)
	c.Stock = cloneCards(gs.Stock)
	c.Waste = cloneCards(gs.Waste)
	return &c
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return []Card{}
	}
	return slices.Clone(cards)
}

func clonePiles(piles [][]Card) [][]Card {
	out := make([][]Card, len(piles))
	for i, p := range piles {
		out[i] = cloneCards(p)
	}
	return out
}

// FoundationTotal counts the cards on all foundations
func FoundationTotal(gs *GameState) int {
	total := 0
	for _, f := range gs.Foundations {
		total += len(f)
	}
	return total
}

// IsWon reports whether every card has reached the foundations
func IsWon(gs *GameState) bool {
	return gs != nil && FoundationTotal(gs) == DeckSize
}

// EmptyFreeCells counts unoccupied free cells
func EmptyFreeCells(gs *GameState) int {
	n := 0
	for _, c := range gs.FreeCells {
		if c == nil {
			n++
		}
	}
	return n
}

// EmptyTableaus counts tableaus with no cards
func EmptyTableaus(gs *GameState) int {
	n := 0
	for _, t := range gs.Tableaus {
		if len(t) == 0 {
			n++
		}
	}
	return n
}

// CountCards returns the number of cards in every zone. A consistent state
// always holds exactly DeckSize.
func CountCards(gs *GameState) int {
	n := FoundationTotal(gs) + len(gs.Stock) + len(gs.Waste)
	for _, t := range gs.Tableaus {
		n += len(t)
	}
	for _, c := range gs.FreeCells {
		if c != nil {
			n++
		}
	}
	return n
}

// destinations enumerates every zone instance a card could be placed on
func destinations(gs *GameState) []Location {
	var out []Location
	for i := range gs.Foundations {
		out = append(out, Top(ZoneFoundation, i))
	}
	for i := range gs.Tableaus {
		out = append(out, Top(ZoneTableau, i))
	}
	for i := range gs.FreeCells {
		out = append(out, Top(ZoneFreeCell, i))
	}
	return out
}

// LegalDestinations lists every location the unit at from could legally move
// to. It never mutates gs.
func LegalDestinations(rs RuleSet, gs *GameState, from Location) ([]Location, error) {
	if _, err := resolveUnit(rs, gs, from); err != nil {
		if isInvalid(err) {
			return nil, err
		}
		return []Location{}, nil
	}
	legal := []Location{}
	for _, to := range destinations(gs) {
		if _, err := ValidateMove(rs, gs, from, to); err == nil {
			legal = append(legal, to)
		}
	}
	return legal, nil
}

// PossibleMoves enumerates every legal move in gs, including every liftable
// run start in each tableau
func PossibleMoves(rs RuleSet, gs *GameState) []Move {
	var sources []Location
	for i, c := range gs.FreeCells {
		if c != nil {
			sources = append(sources, Top(ZoneFreeCell, i))
		}
	}
	if rs.HasStock() && len(gs.Waste) > 0 {
		sources = append(sources, Top(ZoneWaste, 0))
	}
	for i, pile := range gs.Tableaus {
		for j := len(pile) - 1; j >= 0; j-- {
			if !pile[j].FaceUp || !IsValidRun(pile[j:]) {
				break
			}
			sources = append(sources, At(ZoneTableau, i, j))
			if rs.SingleCardOnly() {
				break
			}
		}
	}

	moves := []Move{}
	for _, from := range sources {
		for _, to := range destinations(gs) {
			unit, err := ValidateMove(rs, gs, from, to)
			if err != nil {
				continue
			}
			moves = append(moves, Move{From: from, To: to, Cards: len(unit)})
		}
	}
	return moves
}
