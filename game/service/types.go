package service

import (
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Variant        engine.Variant     `json:"variant"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	AutoSolving    bool               `json:"auto_solving"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveRequest names a source and a destination
type MoveRequest struct {
	From engine.Location `json:"from"`
	To   engine.Location `json:"to"`
}

// MoveResult contains the result of a move, draw or undo. A rejected
// move is reported with Success false, not as an error.
type MoveResult struct {
	Success   bool              `json:"success"`
	Action    string            `json:"action"`
	Cards     []engine.Card     `json:"cards,omitempty"`
	Message   string            `json:"message"`
	Reason    string            `json:"reason,omitempty"`
	Won       bool              `json:"won"`
	CanUndo   bool              `json:"can_undo"`
	GameState *engine.GameState `json:"game_state"`
}

// AutoSolveOptions controls a paced auto-solve run
type AutoSolveOptions struct {
	// Async returns immediately and keeps solving in the background
	Async bool
	// Delay between steps. Zero means unpaced for synchronous runs and the
	// configured auto_solve_delay_ms for async runs.
	Delay time.Duration
	// OnStep receives a copy of the state after each card goes home
	OnStep func(state *engine.GameState)
	// OnDone receives the final result of an async run
	OnDone func(result *AutoSolveResult)
}

// AutoSolveResult summarizes an auto-solve run
type AutoSolveResult struct {
	Started   bool              `json:"started,omitempty"`
	MovesMade int               `json:"moves_made"`
	Won       bool              `json:"won"`
	Stuck     bool              `json:"stuck"`
	Cancelled bool              `json:"cancelled"`
	Message   string            `json:"message,omitempty"`
	GameState *engine.GameState `json:"game_state,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename        string `json:"filename"`
	ConfigID        string `json:"config_id"` // The identifier to use for session creation
	Name            string `json:"name"`      // Display name
	Description     string `json:"description"`
	Variant         string `json:"variant"`
	SingleCardMoves bool   `json:"single_card_moves"`
}
