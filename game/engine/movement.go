package engine

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrIllegalMove is returned for well-formed requests the rules reject.
	// The state is never modified when it is returned.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidLocation is returned for malformed locations: zones the
	// variant does not have, or indexes out of range
	ErrInvalidLocation = errors.New("invalid location")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalMove, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLocation, fmt.Sprintf(format, args...))
}

func isInvalid(err error) bool {
	return errors.Is(err, ErrInvalidLocation)
}

// checkLocation verifies that loc names a zone instance that exists in gs
func checkLocation(rs RuleSet, gs *GameState, loc Location) error {
	var count int
	switch loc.Zone {
	case ZoneFreeCell:
		count = len(gs.FreeCells)
	case ZoneFoundation:
		count = len(gs.Foundations)
	case ZoneTableau:
		count = len(gs.Tableaus)
	case ZoneStock, ZoneWaste:
		if !rs.HasStock() {
			return invalid("%s has no %s", rs.Variant(), loc.Zone)
		}
		count = 1
	default:
		return invalid("unknown zone %q", loc.Zone)
	}
	if count == 0 {
		return invalid("%s has no %s", rs.Variant(), loc.Zone)
	}
	if loc.Index < 0 || loc.Index >= count {
		return invalid("%s index %d out of range [0,%d)", loc.Zone, loc.Index, count)
	}
	return nil
}

// IsValidRun reports whether cards are all face up and alternate color while
// descending by one rank
func IsValidRun(cards []Card) bool {
	for i, c := range cards {
		if !c.FaceUp {
			return false
		}
		if i == 0 {
			continue
		}
		prev := cards[i-1]
		if prev.IsRed() == c.IsRed() || prev.Rank != c.Rank+1 {
			return false
		}
	}
	return true
}

// resolveUnit returns the cards that would be lifted from loc
func resolveUnit(rs RuleSet, gs *GameState, from Location) ([]Card, error) {
	if err := checkLocation(rs, gs, from); err != nil {
		return nil, err
	}

	switch from.Zone {
	case ZoneFreeCell:
		c := gs.FreeCells[from.Index]
		if c == nil {
			return nil, illegal("free cell %d is empty", from.Index)
		}
		return []Card{*c}, nil

	case ZoneFoundation:
		return nil, illegal("cards cannot leave a foundation")

	case ZoneStock:
		return nil, illegal("the stock is drawn, not moved")

	case ZoneWaste:
		if len(gs.Waste) == 0 {
			return nil, illegal("waste is empty")
		}
		return gs.Waste[len(gs.Waste)-1:], nil

	case ZoneTableau:
		pile := gs.Tableaus[from.Index]
		if len(pile) == 0 {
			return nil, illegal("tableau %d is empty", from.Index)
		}
		start := from.CardIndex
		if start < 0 {
			start = len(pile) - 1
		}
		if start >= len(pile) {
			return nil, invalid("card index %d out of range for tableau %d (%d cards)", start, from.Index, len(pile))
		}
		if rs.SingleCardOnly() && start != len(pile)-1 {
			return nil, illegal("only the top card may be moved")
		}
		unit := pile[start:]
		if !unit[0].FaceUp {
			return nil, illegal("%s is face down", unit[0])
		}
		if !IsValidRun(unit) {
			return nil, illegal("cards from %s do not form a run", unit[0])
		}
		return unit, nil
	}
	return nil, invalid("unknown zone %q", from.Zone)
}

// checkDestination decides whether unit may be placed on to
func checkDestination(rs RuleSet, gs *GameState, unit []Card, to Location) error {
	if err := checkLocation(rs, gs, to); err != nil {
		return err
	}
	lead := unit[0]

	switch to.Zone {
	case ZoneFreeCell:
		if len(unit) != 1 {
			return illegal("a free cell holds one card")
		}
		if gs.FreeCells[to.Index] != nil {
			return illegal("free cell %d is occupied", to.Index)
		}
		return nil

	case ZoneFoundation:
		if len(unit) != 1 {
			return illegal("foundations take one card at a time")
		}
		suit := Suits[to.Index]
		if lead.Suit != suit {
			return illegal("%s does not belong on the %s foundation", lead, suit)
		}
		if want := Rank(len(gs.Foundations[to.Index])); lead.Rank != want {
			return illegal("%s foundation needs %s", suit, want)
		}
		return nil

	case ZoneTableau:
		pile := gs.Tableaus[to.Index]
		if len(pile) == 0 {
			if !rs.AcceptsOnEmptyTableau(lead) {
				return illegal("%s cannot start an empty tableau", lead)
			}
		} else {
			top := pile[len(pile)-1]
			if !top.FaceUp {
				return illegal("tableau %d top card is face down", to.Index)
			}
			if top.IsRed() == lead.IsRed() || top.Rank != lead.Rank+1 {
				return illegal("%s cannot go on %s", lead, top)
			}
		}
		if capacity := rs.MoveCapacity(gs, to); capacity >= 0 && len(unit) > capacity {
			return illegal("moving %d cards needs more free space (max %d)", len(unit), capacity)
		}
		return nil
	}
	return illegal("cards cannot be placed on the %s", to.Zone)
}

// ValidateMove runs every check of the move path without touching gs and
// returns the unit that would move
func ValidateMove(rs RuleSet, gs *GameState, from, to Location) ([]Card, error) {
	unit, err := resolveUnit(rs, gs, from)
	if err != nil {
		return nil, err
	}
	if from.sameZone(to) {
		return nil, illegal("source and destination are the same")
	}
	if err := checkDestination(rs, gs, unit, to); err != nil {
		return nil, err
	}
	return unit, nil
}

// applyMove splices n cards from the source onto the destination. It assumes
// ValidateMove has already accepted the move.
func applyMove(rs RuleSet, gs *GameState, from, to Location, n int) []Card {
	var unit []Card

	switch from.Zone {
	case ZoneFreeCell:
		unit = []Card{*gs.FreeCells[from.Index]}
		gs.FreeCells[from.Index] = nil
	case ZoneWaste:
		unit = slices.Clone(gs.Waste[len(gs.Waste)-n:])
		gs.Waste = gs.Waste[:len(gs.Waste)-n]
	case ZoneTableau:
		pile := gs.Tableaus[from.Index]
		unit = slices.Clone(pile[len(pile)-n:])
		pile = pile[:len(pile)-n]
		if rs.RevealOnExpose() && len(pile) > 0 && !pile[len(pile)-1].FaceUp {
			pile[len(pile)-1].FaceUp = true
		}
		gs.Tableaus[from.Index] = pile
	}

	for i := range unit {
		unit[i].FaceUp = true
	}

	switch to.Zone {
	case ZoneFreeCell:
		c := unit[0]
		gs.FreeCells[to.Index] = &c
	case ZoneFoundation:
		gs.Foundations[to.Index] = append(gs.Foundations[to.Index], unit...)
	case ZoneTableau:
		gs.Tableaus[to.Index] = append(gs.Tableaus[to.Index], unit...)
	}

	gs.MoveCount++
	gs.Won = IsWon(gs)
	return unit
}

// validateDraw checks that a stock click would do something
func validateDraw(rs RuleSet, gs *GameState) error {
	if !rs.HasStock() {
		return invalid("%s has no stock", rs.Variant())
	}
	if len(gs.Stock) == 0 && len(gs.Waste) == 0 {
		return illegal("stock and waste are both empty")
	}
	return nil
}

// drawFromStock turns the top stock card onto the waste or, when the stock is
// exhausted, turns the waste back over into the stock
func drawFromStock(rs RuleSet, gs *GameState) (string, error) {
	if err := validateDraw(rs, gs); err != nil {
		return "", err
	}

	gs.MoveCount++
	if len(gs.Stock) > 0 {
		card := gs.Stock[len(gs.Stock)-1]
		gs.Stock = gs.Stock[:len(gs.Stock)-1]
		card.FaceUp = true
		gs.Waste = append(gs.Waste, card)
		return ActionDraw, nil
	}

	stock := make([]Card, 0, len(gs.Waste))
	for i := len(gs.Waste) - 1; i >= 0; i-- {
		card := gs.Waste[i]
		card.FaceUp = false
		stock = append(stock, card)
	}
	gs.Stock = stock
	gs.Waste = []Card{}
	return ActionRecycle, nil
}
