package service_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/service"
	"github.com/wricardo/mcp-training/solitaire/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	mu       sync.Mutex
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, seed int64) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngineWithSeed(config, seed)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:        id,
		Engine:    eng,
		Config:    config,
		CreatedAt: time.Now(),
	}
	session.Touch(time.Now())
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[id]; exists {
		session.Touch(time.Now())
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) CleanupExpiredSessions(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for id, session := range m.sessions {
		if session.LastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	freecell := engine.DefaultConfig(engine.FreeCell)
	freecell.Name = "Test FreeCell"
	klondike := engine.DefaultConfig(engine.Klondike)
	klondike.Name = "Test Klondike"

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"freecell": freecell,
			"klondike": klondike,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for _, id := range []string{"freecell", "klondike"} {
		config := m.configs[id]
		result = append(result, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Variant:     string(config.Variant),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["freecell"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.configs[name] = config
	return nil
}

func setupTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func seed(v int64) *int64 { return &v }

func card(s engine.Suit, r engine.Rank) engine.Card {
	return engine.Card{Suit: s, Rank: r, FaceUp: true}
}

// nearlyWon leaves one king per suit on cascades 0..3
func nearlyWon() *engine.GameState {
	rs, _ := engine.NewRuleSet(engine.DefaultConfig(engine.FreeCell))
	gs := rs.Deal(engine.ShuffledDeck(1))
	for i := range gs.Tableaus {
		gs.Tableaus[i] = []engine.Card{}
	}
	for i, suit := range engine.Suits {
		gs.Foundations[i] = []engine.Card{}
		for r := engine.Ace; r < engine.King; r++ {
			gs.Foundations[i] = append(gs.Foundations[i], card(suit, r))
		}
		gs.Tableaus[i] = []engine.Card{card(suit, engine.King)}
	}
	return gs
}

// stuckState buries the spade queen under its king
func stuckState() *engine.GameState {
	gs := nearlyWon()
	for i := range gs.Tableaus {
		gs.Tableaus[i] = []engine.Card{}
	}
	gs.Foundations[0] = gs.Foundations[0][:11]
	gs.Tableaus[0] = []engine.Card{
		card(engine.Hearts, engine.King),
		card(engine.Diamonds, engine.King),
		card(engine.Clubs, engine.King),
		card(engine.Spades, engine.Queen),
		card(engine.Spades, engine.King),
	}
	return gs
}

func createWithState(t *testing.T, svc service.GameService, sessions *MockSessionManager, configName string, state *engine.GameState) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), configName, seed(1))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if state != nil {
		sess, _ := sessions.Get(info.ID)
		if err := sess.Engine.SetState(state); err != nil {
			t.Fatalf("SetState failed: %v", err)
		}
	}
	return info.ID
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "", nil)
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID")
		}
		if info.ConfigName != "freecell" || info.Variant != engine.FreeCell {
			t.Errorf("Expected freecell config, got %s/%s", info.ConfigName, info.Variant)
		}
		if info.GameState == nil || info.GameState.Message == "" {
			t.Error("Expected dealt state with welcome message")
		}
	})

	t.Run("seeded deals are reproducible", func(t *testing.T) {
		a, err := svc.CreateSession(ctx, "klondike", seed(42))
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		b, _ := svc.CreateSession(ctx, "klondike.json", seed(42))
		if !reflect.DeepEqual(a.GameState.Tableaus, b.GameState.Tableaus) ||
			!reflect.DeepEqual(a.GameState.Stock, b.GameState.Stock) {
			t.Error("Expected identical deals for the same seed")
		}
		if a.GameState.Seed != 42 || b.ConfigName != "klondike" {
			t.Errorf("Unexpected session info: seed=%d config=%s", a.GameState.Seed, b.ConfigName)
		}
	})

	t.Run("unknown config lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "spider", nil)
		if !errors.Is(err, service.ErrConfigNotFound) {
			t.Fatalf("Expected ErrConfigNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "Available configs") || !strings.Contains(err.Error(), "klondike") {
			t.Errorf("Expected available configs in error, got %v", err)
		}
	})
}

func TestGameService_SessionLookup(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "", nil)

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil || got.ID != info.ID {
		t.Fatalf("GetSession failed: %v", err)
	}

	sessions, _ := svc.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session, got %d", len(sessions))
	}

	for name, call := range map[string]func() error{
		"get":     func() error { _, err := svc.GetSession(ctx, "nope"); return err },
		"state":   func() error { _, err := svc.GetGameState(ctx, "nope"); return err },
		"move":    func() error { _, err := svc.Move(ctx, "nope", service.MoveRequest{}); return err },
		"draw":    func() error { _, err := svc.Draw(ctx, "nope"); return err },
		"undo":    func() error { _, err := svc.Undo(ctx, "nope"); return err },
		"solve":   func() error { _, err := svc.AutoSolve(ctx, "nope", service.AutoSolveOptions{}); return err },
		"cancel":  func() error { _, err := svc.CancelAutoSolve(ctx, "nope"); return err },
		"history": func() error { _, err := svc.GetMoveHistory(ctx, "nope", service.HistoryOptions{}); return err },
		"delete":  func() error { return svc.DeleteSession(ctx, "nope") },
	} {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, service.ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound, got %v", err)
			}
		})
	}

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}

func TestGameService_Move(t *testing.T) {
	svc, sessions := setupTestService()
	ctx := context.Background()
	id := createWithState(t, svc, sessions, "freecell", nearlyWon())

	t.Run("illegal move is an unsuccessful result", func(t *testing.T) {
		before, _ := svc.GetGameState(ctx, id)
		result, err := svc.Move(ctx, id, service.MoveRequest{
			From: engine.Top(engine.ZoneTableau, 0),
			To:   engine.Top(engine.ZoneFoundation, 1),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Success || result.Reason == "" {
			t.Errorf("Expected rejected move with reason, got %+v", result)
		}
		if result.Message != engine.DefaultConfig(engine.FreeCell).Messages.IllegalMove {
			t.Errorf("Expected illegal move message, got %q", result.Message)
		}
		if !reflect.DeepEqual(before, result.GameState) {
			t.Error("Rejected move changed the state")
		}
	})

	t.Run("invalid location is an error", func(t *testing.T) {
		_, err := svc.Move(ctx, id, service.MoveRequest{
			From: engine.Top(engine.ZoneStock, 0),
			To:   engine.Top(engine.ZoneTableau, 0),
		})
		if !errors.Is(err, engine.ErrInvalidLocation) {
			t.Errorf("Expected ErrInvalidLocation, got %v", err)
		}
	})

	t.Run("legal move", func(t *testing.T) {
		result, err := svc.Move(ctx, id, service.MoveRequest{
			From: engine.Top(engine.ZoneTableau, 0),
			To:   engine.Top(engine.ZoneFoundation, 0),
		})
		if err != nil || !result.Success {
			t.Fatalf("Expected successful move, got %+v %v", result, err)
		}
		if result.Action != engine.ActionMove || len(result.Cards) != 1 || result.Cards[0].Rank != engine.King {
			t.Errorf("Unexpected move result: %+v", result)
		}
		if !result.CanUndo || result.Won {
			t.Errorf("Expected undoable, unfinished game, got %+v", result)
		}
	})

	t.Run("returned state is a copy", func(t *testing.T) {
		state, _ := svc.GetGameState(ctx, id)
		state.Tableaus[1] = nil
		again, _ := svc.GetGameState(ctx, id)
		if len(again.Tableaus[1]) != 1 {
			t.Error("Mutating a returned state leaked into the session")
		}
	})
}

func TestGameService_Draw(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	freecell, _ := svc.CreateSession(ctx, "freecell", seed(1))
	if _, err := svc.Draw(ctx, freecell.ID); !errors.Is(err, engine.ErrInvalidLocation) {
		t.Errorf("Expected ErrInvalidLocation for FreeCell draw, got %v", err)
	}

	klondike, _ := svc.CreateSession(ctx, "klondike", seed(1))
	result, err := svc.Draw(ctx, klondike.ID)
	if err != nil || !result.Success {
		t.Fatalf("Expected draw, got %+v %v", result, err)
	}
	if result.Action != engine.ActionDraw || len(result.GameState.Waste) != 1 || len(result.GameState.Stock) != 23 {
		t.Errorf("Unexpected draw result: %+v", result)
	}
}

func TestGameService_Undo(t *testing.T) {
	svc, sessions := setupTestService()
	ctx := context.Background()
	id := createWithState(t, svc, sessions, "freecell", nearlyWon())
	messages := engine.DefaultConfig(engine.FreeCell).Messages

	result, err := svc.Undo(ctx, id)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if result.Success || result.Message != messages.NothingToUndo {
		t.Errorf("Expected nothing to undo, got %+v", result)
	}

	svc.Move(ctx, id, service.MoveRequest{
		From: engine.Top(engine.ZoneTableau, 2),
		To:   engine.Top(engine.ZoneFoundation, 2),
	})
	result, _ = svc.Undo(ctx, id)
	if !result.Success || result.Message != messages.Undo || result.CanUndo {
		t.Errorf("Expected undone move, got %+v", result)
	}
	if len(result.GameState.Tableaus[2]) != 1 || result.GameState.Message != messages.Undo {
		t.Errorf("Expected king back on cascade 2, got %+v", result.GameState)
	}
}

func TestGameService_NewGame(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "", nil)
	b, _ := svc.CreateSession(ctx, "", nil)

	stateA, err := svc.NewGame(ctx, a.ID, seed(7))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	stateB, _ := svc.NewGame(ctx, b.ID, seed(7))

	if !reflect.DeepEqual(stateA.Tableaus, stateB.Tableaus) {
		t.Error("Expected same deal for same seed")
	}
	if stateA.GameID == stateB.GameID {
		t.Error("Expected distinct game ids")
	}
	if stateA.MoveCount != 0 || stateA.Seed != 7 {
		t.Errorf("Unexpected fresh state: %+v", stateA)
	}
}

func TestGameService_QueryOperations(t *testing.T) {
	svc, sessions := setupTestService()
	ctx := context.Background()
	id := createWithState(t, svc, sessions, "freecell", nearlyWon())

	dests, err := svc.LegalDestinations(ctx, id, engine.Top(engine.ZoneTableau, 1))
	if err != nil {
		t.Fatalf("LegalDestinations failed: %v", err)
	}
	if len(dests) == 0 || dests[0] != engine.Top(engine.ZoneFoundation, 1) {
		t.Errorf("Expected hearts foundation first, got %v", dests)
	}

	if _, err := svc.LegalDestinations(ctx, id, engine.Top(engine.ZoneTableau, 99)); !errors.Is(err, engine.ErrInvalidLocation) {
		t.Errorf("Expected ErrInvalidLocation, got %v", err)
	}

	moves, err := svc.PossibleMoves(ctx, id)
	if err != nil || len(moves) == 0 {
		t.Errorf("Expected possible moves, got %v %v", moves, err)
	}
}

func TestGameService_AutoSolveSync(t *testing.T) {
	svc, sessions := setupTestService()
	ctx := context.Background()

	t.Run("solves to a win", func(t *testing.T) {
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		steps := 0
		result, err := svc.AutoSolve(ctx, id, service.AutoSolveOptions{
			OnStep: func(*engine.GameState) { steps++ },
		})
		if err != nil {
			t.Fatalf("AutoSolve failed: %v", err)
		}
		if !result.Won || result.MovesMade != 4 || steps != 4 || result.Stuck || result.Cancelled {
			t.Errorf("Unexpected result: %+v (steps=%d)", result, steps)
		}
		if result.Message != engine.DefaultConfig(engine.FreeCell).Messages.Victory {
			t.Errorf("Expected victory message, got %q", result.Message)
		}
	})

	t.Run("stuck", func(t *testing.T) {
		id := createWithState(t, svc, sessions, "freecell", stuckState())
		result, err := svc.AutoSolve(ctx, id, service.AutoSolveOptions{})
		if err != nil {
			t.Fatalf("AutoSolve failed: %v", err)
		}
		if !result.Stuck || result.Won || result.MovesMade != 0 {
			t.Errorf("Expected stuck result, got %+v", result)
		}
		if result.Message != engine.DefaultConfig(engine.FreeCell).Messages.AutoSolveStuck {
			t.Errorf("Expected stuck message, got %q", result.Message)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		result, _ := svc.AutoSolve(cctx, id, service.AutoSolveOptions{})
		if !result.Cancelled || result.MovesMade != 0 {
			t.Errorf("Expected cancelled run, got %+v", result)
		}
	})
}

// startSlowSolve starts an async run that pauses a long time after its
// first step and returns once that step happened
func startSlowSolve(t *testing.T, svc service.GameService, id string) <-chan *service.AutoSolveResult {
	t.Helper()
	stepped := make(chan struct{}, 4)
	done := make(chan *service.AutoSolveResult, 1)

	result, err := svc.AutoSolve(context.Background(), id, service.AutoSolveOptions{
		Async:  true,
		Delay:  time.Minute,
		OnStep: func(*engine.GameState) { stepped <- struct{}{} },
		OnDone: func(r *service.AutoSolveResult) { done <- r },
	})
	if err != nil || !result.Started {
		t.Fatalf("Expected async start, got %+v %v", result, err)
	}

	select {
	case <-stepped:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for first auto-solve step")
	}
	return done
}

func waitDone(t *testing.T, done <-chan *service.AutoSolveResult) *service.AutoSolveResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for auto-solve to stop")
		return nil
	}
}

func TestGameService_AutoSolveAsync(t *testing.T) {
	ctx := context.Background()

	t.Run("runs to completion", func(t *testing.T) {
		svc, sessions := setupTestService()
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		done := make(chan *service.AutoSolveResult, 1)
		var mu sync.Mutex
		var states []*engine.GameState

		svc.AutoSolve(ctx, id, service.AutoSolveOptions{
			Async: true,
			Delay: time.Millisecond,
			OnStep: func(s *engine.GameState) {
				mu.Lock()
				states = append(states, s)
				mu.Unlock()
			},
			OnDone: func(r *service.AutoSolveResult) { done <- r },
		})

		result := waitDone(t, done)
		if !result.Won || result.MovesMade != 4 {
			t.Errorf("Expected win, got %+v", result)
		}
		mu.Lock()
		defer mu.Unlock()
		for i, s := range states {
			if got := engine.FoundationTotal(s); got != 49+i {
				t.Errorf("Step %d: expected %d cards home, got %d", i, 49+i, got)
			}
		}
	})

	t.Run("reported while running", func(t *testing.T) {
		svc, sessions := setupTestService()
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		done := startSlowSolve(t, svc, id)

		info, _ := svc.GetSession(ctx, id)
		if !info.AutoSolving {
			t.Error("Expected session to report a running auto-solve")
		}

		svc.CancelAutoSolve(ctx, id)
		waitDone(t, done)
		info, _ = svc.GetSession(ctx, id)
		if info.AutoSolving {
			t.Error("Expected auto-solve to be finished")
		}
	})

	cancellers := map[string]func(svc service.GameService, id string){
		"cancel":   func(svc service.GameService, id string) { svc.CancelAutoSolve(ctx, id) },
		"undo":     func(svc service.GameService, id string) { svc.Undo(ctx, id) },
		"new game": func(svc service.GameService, id string) { svc.NewGame(ctx, id, seed(3)) },
		"delete":   func(svc service.GameService, id string) { svc.DeleteSession(ctx, id) },
		"second run": func(svc service.GameService, id string) {
			svc.AutoSolve(ctx, id, service.AutoSolveOptions{})
		},
	}
	for name, stop := range cancellers {
		t.Run("stopped by "+name, func(t *testing.T) {
			svc, sessions := setupTestService()
			id := createWithState(t, svc, sessions, "freecell", nearlyWon())
			done := startSlowSolve(t, svc, id)

			stop(svc, id)

			result := waitDone(t, done)
			if !result.Cancelled || result.MovesMade != 1 {
				t.Errorf("Expected cancelled run after one step, got %+v", result)
			}
		})
	}

	t.Run("undo restores the pre-step state", func(t *testing.T) {
		svc, sessions := setupTestService()
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		done := startSlowSolve(t, svc, id)

		svc.Undo(ctx, id)
		waitDone(t, done)

		state, _ := svc.GetGameState(ctx, id)
		if engine.FoundationTotal(state) != 48 {
			t.Errorf("Expected 48 cards home after undo, got %d", engine.FoundationTotal(state))
		}
	})

	t.Run("shutdown waits for runs", func(t *testing.T) {
		svc, sessions := setupTestService()
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		done := startSlowSolve(t, svc, id)

		svc.Shutdown()
		result := waitDone(t, done)
		if !result.Cancelled {
			t.Errorf("Expected cancelled run, got %+v", result)
		}
	})
}

func TestGameService_ConcurrentReads(t *testing.T) {
	svc := service.NewGameService(session.NewManager(), NewMockConfigManager())
	defer svc.Shutdown()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "freecell", seed(1))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := svc.GetSession(ctx, info.ID); err != nil {
					t.Errorf("GetSession failed: %v", err)
					return
				}
				svc.ListSessions(ctx)
				svc.GetGameState(ctx, info.ID)
				svc.PossibleMoves(ctx, info.ID)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.GetSession(ctx, info.ID)
	if got.LastAccessedAt.Before(info.LastAccessedAt) {
		t.Errorf("Expected access time to move forward, got %v before %v", got.LastAccessedAt, info.LastAccessedAt)
	}
}

func TestGameService_ExpireSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("removes idle sessions only", func(t *testing.T) {
		svc, sessions := setupTestService()
		idle, _ := svc.CreateSession(ctx, "freecell", seed(1))
		fresh, _ := svc.CreateSession(ctx, "freecell", seed(2))

		sess, _ := sessions.Get(idle.ID)
		sess.Touch(time.Now().Add(-2 * time.Hour))

		if removed := svc.ExpireSessions(ctx, time.Hour); removed != 1 {
			t.Errorf("Expected 1 session removed, got %d", removed)
		}
		if _, err := svc.GetSession(ctx, idle.ID); !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected idle session gone, got %v", err)
		}
		if _, err := svc.GetSession(ctx, fresh.ID); err != nil {
			t.Errorf("Expected fresh session kept, got %v", err)
		}
	})

	t.Run("stops a running auto-solve", func(t *testing.T) {
		svc, sessions := setupTestService()
		id := createWithState(t, svc, sessions, "freecell", nearlyWon())
		done := startSlowSolve(t, svc, id)

		sess, _ := sessions.Get(id)
		sess.Touch(time.Now().Add(-2 * time.Hour))
		if removed := svc.ExpireSessions(ctx, time.Hour); removed != 1 {
			t.Fatalf("Expected 1 session removed, got %d", removed)
		}

		result := waitDone(t, done)
		if !result.Cancelled || result.MovesMade != 1 {
			t.Errorf("Expected cancelled run after one step, got %+v", result)
		}
	})
}

func TestGameService_ShutdownRefusesNewRuns(t *testing.T) {
	svc, sessions := setupTestService()
	id := createWithState(t, svc, sessions, "freecell", nearlyWon())
	svc.Shutdown()

	for _, async := range []bool{false, true} {
		_, err := svc.AutoSolve(context.Background(), id, service.AutoSolveOptions{Async: async})
		if !errors.Is(err, service.ErrShuttingDown) {
			t.Errorf("async=%v: expected ErrShuttingDown, got %v", async, err)
		}
	}

	state, _ := svc.GetGameState(context.Background(), id)
	if engine.FoundationTotal(state) != 48 {
		t.Errorf("Expected no cards moved after shutdown, got %d home", engine.FoundationTotal(state))
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "klondike", seed(5))
	for i := 0; i < 25; i++ {
		if _, err := svc.Draw(ctx, info.ID); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
	}

	t.Run("defaults", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("GetMoveHistory failed: %v", err)
		}
		if history.TotalMoves != 25 || history.PageSize != 20 || history.TotalPages != 2 || !history.HasNext || history.HasPrevious {
			t.Errorf("Unexpected pagination: %+v", history)
		}
		if len(history.Moves) != 20 || history.Moves[0].MoveNumber != 25 {
			t.Errorf("Expected newest first, got first move %d", history.Moves[0].MoveNumber)
		}
		if history.Moves[0].Action != engine.ActionRecycle {
			t.Errorf("Expected the 25th click to recycle, got %s", history.Moves[0].Action)
		}
	})

	t.Run("ascending second page", func(t *testing.T) {
		history, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 10, Order: "asc"})
		if len(history.Moves) != 10 || history.Moves[0].MoveNumber != 11 {
			t.Errorf("Unexpected page: %+v", history.Moves)
		}
		if !history.HasNext || !history.HasPrevious || history.TotalPages != 3 {
			t.Errorf("Unexpected pagination flags: %+v", history)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		history, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 9, Limit: 500})
		if history.PageSize != 100 || len(history.Moves) != 0 || history.Moves == nil {
			t.Errorf("Expected empty capped page, got %+v", history)
		}
	})
}

func TestGameService_Configs(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %v %v", configs, err)
	}

	custom := engine.DefaultConfig(engine.Klondike)
	custom.Name = "Custom"
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "custom")
	if err != nil || loaded.Name != "Custom" {
		t.Errorf("Expected saved config, got %v %v", loaded, err)
	}

	info, err := svc.CreateSession(ctx, "custom", nil)
	if err != nil || info.Variant != engine.Klondike {
		t.Errorf("Expected klondike session from custom config, got %v %v", info, err)
	}
}
