package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex

	// running auto-solves keyed by lower-cased session id
	runs    map[string]*autoSolveRun
	nextRun uint64
	wg      sync.WaitGroup
	closed  bool // set by Shutdown; no new runs start afterwards
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		runs:     make(map[string]*autoSolveRun),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "freecell"
	}
	return configName
}

func (s *gameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, error) {
	if configName == "" {
		return s.configs.GetDefault(), nil
	}

	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
	}

	// Provide helpful error message with available options
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr == nil && len(availableConfigs) > 0 {
		configIDs := make([]string, 0, len(availableConfigs))
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
	}
	return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
}

// getSession looks a session up and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	_, running := s.runs[runKey(sess.ID)]
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Variant:        sess.Config.Variant,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		AutoSolving:    running,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

func seedOrRandom(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return engine.NewSeed()
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// CreateSession creates a new game session, dealing from seed when given
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create("", config, seedOrRandom(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session, strings.TrimSuffix(configName, ".json")), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession stops any auto-solve and removes the session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRunLocked(sessionID)
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// ExpireSessions removes sessions idle for longer than maxAge and stops their auto-solves
func (s *gameServiceImpl) ExpireSessions(ctx context.Context, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.sessions.CleanupExpiredSessions(maxAge)
	for _, id := range removed {
		if s.cancelRunLocked(id) {
			log.Printf("[AUTO-SOLVE] session=%s cancelled: session expired", id)
		}
	}
	return len(removed)
}

// Move applies a move. Illegal moves come back as an unsuccessful result;
// malformed locations come back as an engine.ErrInvalidLocation error.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.RequestMove(req.From, req.To); err != nil {
		if errors.Is(err, engine.ErrIllegalMove) {
			return rejected(sess, engine.ActionMove, err), nil
		}
		return nil, err
	}
	return applied(sess), nil
}

// Draw clicks the Klondike stock
func (s *gameServiceImpl) Draw(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.Draw(); err != nil {
		if errors.Is(err, engine.ErrIllegalMove) {
			return rejected(sess, engine.ActionDraw, err), nil
		}
		return nil, err
	}
	return applied(sess), nil
}

// Undo restores the previous snapshot and stops any auto-solve
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.cancelRunLocked(sess.ID)
	undone := sess.Engine.Undo()

	message := orDefault(sess.Config.Messages.NothingToUndo, "Nothing to undo.")
	if undone {
		message = orDefault(sess.Config.Messages.Undo, "Move undone.")
		sess.Engine.GetState().Message = message
	}

	state := sess.Engine.GetState().Clone()
	return &MoveResult{
		Success:   undone,
		Action:    engine.ActionUndo,
		Message:   message,
		Won:       state.Won,
		CanUndo:   sess.Engine.CanUndo(),
		GameState: state,
	}, nil
}

// NewGame deals again, from seed when given, and stops any auto-solve
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string, seed *int64) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.cancelRunLocked(sess.ID)
	return sess.Engine.NewGame(seedOrRandom(seed)).Clone(), nil
}

func applied(sess *Session) *MoveResult {
	state := sess.Engine.GetState().Clone()
	result := &MoveResult{
		Success:   true,
		Message:   state.Message,
		Won:       state.Won,
		CanUndo:   sess.Engine.CanUndo(),
		GameState: state,
	}
	if last := sess.Engine.GetLastMove(); last != nil {
		result.Action = last.Action
		result.Cards = last.Cards
	}
	return result
}

func rejected(sess *Session, action string, err error) *MoveResult {
	state := sess.Engine.GetState().Clone()
	return &MoveResult{
		Success:   false,
		Action:    action,
		Message:   orDefault(sess.Config.Messages.IllegalMove, "That move is not allowed."),
		Reason:    err.Error(),
		Won:       state.Won,
		CanUndo:   sess.Engine.CanUndo(),
		GameState: state,
	}
}

// GetGameState returns a copy of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Clone(), nil
}

// LegalDestinations lists where the unit at from may go
func (s *gameServiceImpl) LegalDestinations(ctx context.Context, sessionID string, from engine.Location) ([]engine.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.LegalDestinations(from)
}

// PossibleMoves lists every legal move in the current state
func (s *gameServiceImpl) PossibleMoves(ctx context.Context, sessionID string) ([]engine.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetPossibleMoves(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	moves := []engine.MoveRecord{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
