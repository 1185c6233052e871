package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/service"
)

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nVariant: %s\nCreated: %s\nLast Accessed: %s\n",
		session.ID, session.ConfigName, session.Variant,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"))
	if session.AutoSolving {
		result += "Auto-solve: running\n"
	}
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatCard(c engine.Card) string {
	if !c.FaceUp {
		return "##"
	}
	return c.String()
}

// formatGameState renders the board as text, one zone per line
func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (seed %d) | Moves: %d | Home: %d/%d\n",
		state.ConfigName, state.Seed, state.MoveCount, engine.FoundationTotal(state), engine.DeckSize)

	if state.Won {
		b.WriteString("🎉 VICTORY!\n")
	}

	if len(state.FreeCells) > 0 {
		cells := make([]string, len(state.FreeCells))
		for i, c := range state.FreeCells {
			cells[i] = "--"
			if c != nil {
				cells[i] = formatCard(*c)
			}
		}
		fmt.Fprintf(&b, "\nFree cells:  %s\n", strings.Join(cells, " "))
	}

	foundations := make([]string, len(state.Foundations))
	for i, pile := range state.Foundations {
		foundations[i] = "--"
		if len(pile) > 0 {
			foundations[i] = formatCard(pile[len(pile)-1])
		}
	}
	fmt.Fprintf(&b, "Foundations: %s\n", strings.Join(foundations, " "))

	if state.Variant == engine.Klondike {
		waste := "--"
		if len(state.Waste) > 0 {
			waste = formatCard(state.Waste[len(state.Waste)-1])
		}
		fmt.Fprintf(&b, "Stock: %d  Waste: %s (%d)\n", len(state.Stock), waste, len(state.Waste))
	}

	b.WriteString("\n")
	for i, pile := range state.Tableaus {
		cards := make([]string, len(pile))
		for j, c := range pile {
			cards[j] = formatCard(c)
		}
		if len(cards) == 0 {
			cards = []string{"(empty)"}
		}
		fmt.Fprintf(&b, "T%d: %s\n", i, strings.Join(cards, " "))
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", state.Message)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful")
		if len(result.Cards) > 0 {
			cards := make([]string, len(result.Cards))
			for i, c := range result.Cards {
				cards[i] = formatCard(c)
			}
			fmt.Fprintf(&b, ": %s", strings.Join(cards, " "))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("✗ Move failed\n")
		if result.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", result.Reason)
		}
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	if result.GameState != nil {
		b.WriteString("\n" + formatGameState(result.GameState))
	}
	return b.String()
}

func formatAutoSolveResult(result *service.AutoSolveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Auto-solve sent %d card(s) home\n", result.MovesMade)
	switch {
	case result.Won:
		b.WriteString("🎉 VICTORY!\n")
	case result.Cancelled:
		b.WriteString("Run was cancelled\n")
	case result.Stuck:
		b.WriteString("No more cards can go home\n")
	}
	if result.GameState != nil {
		b.WriteString("\n" + formatGameState(result.GameState))
	}
	return b.String()
}

func formatPossibleMoves(moves []engine.Move) string {
	if len(moves) == 0 {
		return "No legal moves"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Legal moves (%d):\n", len(moves))
	for _, m := range moves {
		fmt.Fprintf(&b, "- %s -> %s (%d card", m.From, m.To, m.Cards)
		if m.Cards != 1 {
			b.WriteString("s")
		}
		b.WriteString(")\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		line := fmt.Sprintf("%d. %s", move.MoveNumber, move.Action)
		if move.From != nil && move.To != nil {
			line += fmt.Sprintf(" %s -> %s", move.From, move.To)
		}
		if len(move.Cards) > 0 {
			cards := make([]string, len(move.Cards))
			for i, c := range move.Cards {
				cards[i] = formatCard(c)
			}
			line += " [" + strings.Join(cards, " ") + "]"
		}
		if move.Auto {
			line += " (auto)"
		}
		result += line + "\n"
	}

	return result
}
