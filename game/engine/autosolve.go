package engine

// autoSources lists the locations whose top card auto-solve may send home:
// free cells and the waste first, then each tableau.
func autoSources(gs *GameState) []Location {
	var sources []Location
	for i, c := range gs.FreeCells {
		if c != nil {
			sources = append(sources, Top(ZoneFreeCell, i))
		}
	}
	if len(gs.Waste) > 0 {
		sources = append(sources, Top(ZoneWaste, 0))
	}
	for i, t := range gs.Tableaus {
		if len(t) > 0 {
			sources = append(sources, Top(ZoneTableau, i))
		}
	}
	return sources
}

// NextAutoMove finds the first card that can go to its foundation, scanning in
// auto-solve order. It does not modify gs.
func NextAutoMove(rs RuleSet, gs *GameState) (Move, bool) {
	if IsWon(gs) {
		return Move{}, false
	}
	for _, from := range autoSources(gs) {
		card, ok := topCard(gs, from)
		if !ok {
			continue
		}
		idx := card.Suit.Index()
		if idx < 0 || idx >= len(gs.Foundations) {
			continue
		}
		to := Top(ZoneFoundation, idx)
		if _, err := ValidateMove(rs, gs, from, to); err == nil {
			return Move{From: from, To: to, Cards: 1}, true
		}
	}
	return Move{}, false
}

func topCard(gs *GameState, loc Location) (Card, bool) {
	switch loc.Zone {
	case ZoneFreeCell:
		if c := gs.FreeCells[loc.Index]; c != nil {
			return *c, true
		}
	case ZoneWaste:
		if n := len(gs.Waste); n > 0 {
			return gs.Waste[n-1], true
		}
	case ZoneTableau:
		if t := gs.Tableaus[loc.Index]; len(t) > 0 {
			return t[len(t)-1], true
		}
	}
	return Card{}, false
}

// AutoStep applies one auto move through the normal move path, so it is
// recorded in history like any other move. It reports false when no card can
// go home or the game is already won.
func (e *GameEngine) AutoStep() (*MoveRecord, bool) {
	next, ok := NextAutoMove(e.rules, e.state)
	if !ok {
		return nil, false
	}
	if err := e.move(next.From, next.To, true); err != nil {
		return nil, false
	}
	return e.GetLastMove(), true
}

// AutoSolve repeats AutoStep until nothing moves and returns the number of
// cards sent home
func (e *GameEngine) AutoSolve() int {
	n := 0
	for {
		if _, ok := e.AutoStep(); !ok {
			break
		}
		n++
	}
	if n == 0 && !e.state.Won && e.config.Messages.AutoSolveStuck != "" {
		e.state.Message = e.config.Messages.AutoSolveStuck
	}
	return n
}
