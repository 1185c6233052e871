package service

import (
	"context"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// autoSolveRun is one paced auto-solve. At most one runs per session.
type autoSolveRun struct {
	id     uint64
	key    string
	ctx    context.Context
	cancel context.CancelFunc
}

func runKey(sessionID string) string {
	return strings.ToLower(sessionID)
}

// AutoSolve sends cards to the foundations one at a time until nothing more
// can go home, the game is won, or the run is cancelled. A run is cancelled
// by its context, by CancelAutoSolve, by a later AutoSolve, by Undo, NewGame
// or DeleteSession, and whenever the engine epoch moves.
func (s *gameServiceImpl) AutoSolve(ctx context.Context, sessionID string, opts AutoSolveOptions) (*AutoSolveResult, error) {
	s.mu.Lock()
	sess, err := s.getSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	delay := opts.Delay
	parent := ctx
	if opts.Async {
		if delay <= 0 {
			delay = time.Duration(sess.Config.AutoSolveDelayMS) * time.Millisecond
		}
		parent = context.Background()
	}
	run, err := s.startRunLocked(parent, sess.ID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	epoch := sess.Engine.Epoch()
	s.mu.Unlock()

	if !opts.Async {
		defer s.finishRun(run)
		return s.runAutoSolve(run, sess, epoch, delay, opts.OnStep), nil
	}

	go func() {
		defer s.finishRun(run)
		result := s.runAutoSolve(run, sess, epoch, delay, opts.OnStep)
		if opts.OnDone != nil {
			opts.OnDone(result)
		}
	}()
	return &AutoSolveResult{Started: true}, nil
}

// CancelAutoSolve stops a running auto-solve. It reports whether one was running.
func (s *gameServiceImpl) CancelAutoSolve(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return false, err
	}
	return s.cancelRunLocked(sess.ID), nil
}

// Shutdown cancels every running auto-solve and waits for them to return
func (s *gameServiceImpl) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for key, run := range s.runs {
		run.cancel()
		delete(s.runs, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *gameServiceImpl) runAutoSolve(run *autoSolveRun, sess *Session, epoch uint64, delay time.Duration, onStep func(*engine.GameState)) *AutoSolveResult {
	result := &AutoSolveResult{}

	for {
		if run.ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		s.mu.Lock()
		if sess.Engine.Epoch() != epoch {
			s.mu.Unlock()
			result.Cancelled = true
			break
		}
		_, moved := sess.Engine.AutoStep()
		won := sess.Engine.IsWon()
		if !moved && !won && result.MovesMade == 0 {
			sess.Engine.GetState().Message = orDefault(sess.Config.Messages.AutoSolveStuck, "No card can go to a foundation right now.")
		}
		state := sess.Engine.GetState().Clone()
		s.mu.Unlock()

		result.GameState = state
		result.Won = won
		if !moved {
			result.Stuck = !won
			break
		}

		result.MovesMade++
		if onStep != nil {
			onStep(state)
		}
		if won {
			break
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-run.ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	switch {
	case result.Cancelled:
		result.Message = "Auto-solve cancelled."
	case result.GameState != nil:
		result.Message = result.GameState.Message
	}
	return result
}

// startRunLocked registers a run for the session, cancelling any earlier one.
// It fails once Shutdown has begun. Callers hold s.mu.
func (s *gameServiceImpl) startRunLocked(parent context.Context, sessionID string) (*autoSolveRun, error) {
	if s.closed {
		return nil, ErrShuttingDown
	}

	key := runKey(sessionID)
	if prev, ok := s.runs[key]; ok {
		prev.cancel()
	}

	s.nextRun++
	ctx, cancel := context.WithCancel(parent)
	run := &autoSolveRun{id: s.nextRun, key: key, ctx: ctx, cancel: cancel}
	s.runs[key] = run
	s.wg.Add(1)
	return run, nil
}

func (s *gameServiceImpl) finishRun(run *autoSolveRun) {
	run.cancel()

	s.mu.Lock()
	if current, ok := s.runs[run.key]; ok && current.id == run.id {
		delete(s.runs, run.key)
	}
	s.mu.Unlock()

	s.wg.Done()
}

// cancelRunLocked stops the session's run, if any. Callers hold s.mu.
func (s *gameServiceImpl) cancelRunLocked(sessionID string) bool {
	key := runKey(sessionID)
	run, ok := s.runs[key]
	if !ok {
		return false
	}
	run.cancel()
	delete(s.runs, key)
	return true
}
