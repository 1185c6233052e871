package main

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// GreedyStrategy ranks legal moves with simple solitaire heuristics and
// refuses moves that lead back to a position it has already seen
type GreedyStrategy struct {
	seen     map[string]bool
	rejected map[string]bool // position|move pairs that looped
	rng      *rand.Rand
}

func NewGreedyStrategy(seed int64) *GreedyStrategy {
	s := &GreedyStrategy{rng: rand.New(rand.NewSource(seed))}
	s.Reset()
	return s
}

// Reset forgets visited positions
func (s *GreedyStrategy) Reset() {
	s.seen = make(map[string]bool)
	s.rejected = make(map[string]bool)
}

// Visit records a position and reports whether it was new
func (s *GreedyStrategy) Visit(state *engine.GameState) bool {
	key := fingerprint(state)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

// Reject marks m as leading back to a seen position from state
func (s *GreedyStrategy) Reject(state *engine.GameState, m engine.Move) {
	s.rejected[fingerprint(state)+"|"+m.From.String()+">"+m.To.String()] = true
}

// NextMove returns the best-scoring move that is not rejected, or false
func (s *GreedyStrategy) NextMove(state *engine.GameState, moves []engine.Move) (engine.Move, bool) {
	key := fingerprint(state)

	type scored struct {
		move  engine.Move
		score int
		tie   int
	}
	var candidates []scored
	for _, m := range moves {
		if s.rejected[key+"|"+m.From.String()+">"+m.To.String()] {
			continue
		}
		score := scoreMove(state, m)
		if score < 0 {
			continue
		}
		candidates = append(candidates, scored{m, score, s.rng.Int()})
	}
	if len(candidates) == 0 {
		return engine.Move{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].tie < candidates[j].tie
	})
	return candidates[0].move, true
}

// scoreMove rates m. A negative score means never play it.
func scoreMove(state *engine.GameState, m engine.Move) int {
	switch {
	case m.To.Zone == engine.ZoneFoundation:
		return 100
	case m.From.Zone == engine.ZoneTableau && exposesHidden(state, m):
		return 80
	case m.From.Zone == engine.ZoneWaste:
		return 50
	case m.From.Zone == engine.ZoneFreeCell:
		return 40
	case m.From.Zone == engine.ZoneTableau && m.To.Zone == engine.ZoneTableau:
		pile := state.Tableaus[m.From.Index]
		start := liftStart(pile, m.From)
		target := state.Tableaus[m.To.Index]
		// Shuffling a whole column into an empty one gains nothing
		if start == 0 && len(target) == 0 {
			return -1
		}
		if start == 0 {
			return 30 + m.Cards
		}
		return 10 + m.Cards
	case m.To.Zone == engine.ZoneFreeCell:
		return 1
	}
	return 0
}

func liftStart(pile []engine.Card, from engine.Location) int {
	if from.CardIndex >= 0 {
		return from.CardIndex
	}
	return len(pile) - 1
}

// exposesHidden reports whether lifting from m.From turns over a face-down card
func exposesHidden(state *engine.GameState, m engine.Move) bool {
	pile := state.Tableaus[m.From.Index]
	start := liftStart(pile, m.From)
	return start > 0 && !pile[start-1].FaceUp
}

// fingerprint is a compact key of the card layout
func fingerprint(state *engine.GameState) string {
	var b strings.Builder
	write := func(cards []engine.Card) {
		for _, c := range cards {
			if !c.FaceUp {
				b.WriteByte('#')
			}
			b.WriteString(c.String())
		}
		b.WriteByte('|')
	}
	for _, c := range state.FreeCells {
		if c != nil {
			b.WriteString(c.String())
		}
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, pile := range state.Foundations {
		b.WriteString(string(rune('0' + len(pile))))
	}
	b.WriteByte('|')
	for _, pile := range state.Tableaus {
		write(pile)
	}
	write(state.Stock)
	write(state.Waste)
	return b.String()
}
