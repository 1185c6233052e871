package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrShuttingDown    = errors.New("game service is shutting down")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error)
	Draw(ctx context.Context, sessionID string) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	NewGame(ctx context.Context, sessionID string, seed *int64) (*engine.GameState, error)
	AutoSolve(ctx context.Context, sessionID string, opts AutoSolveOptions) (*AutoSolveResult, error)
	CancelAutoSolve(ctx context.Context, sessionID string) (bool, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	LegalDestinations(ctx context.Context, sessionID string, from engine.Location) ([]engine.Location, error)
	PossibleMoves(ctx context.Context, sessionID string) ([]engine.Move, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// ExpireSessions deletes sessions idle for longer than maxAge, cancelling
	// their auto-solves. It returns the number removed.
	ExpireSessions(ctx context.Context, maxAge time.Duration) int

	// Shutdown stops running auto-solves and waits for them to exit
	Shutdown()
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	// CleanupExpiredSessions removes idle sessions and returns their IDs
	CleanupExpiredSessions(maxAge time.Duration) []string
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID        string
	Engine    *engine.GameEngine
	Config    *engine.GameConfig
	CreatedAt time.Time

	lastAccessed atomic.Int64 // unix nanoseconds
}

// Touch records t as the last access time
func (s *Session) Touch(t time.Time) {
	s.lastAccessed.Store(t.UnixNano())
}

// LastAccessed returns the last access time. It is safe for concurrent use.
func (s *Session) LastAccessed() time.Time {
	return time.Unix(0, s.lastAccessed.Load())
}
