// Package service is the business layer between the transports (HTTP,
// WebSocket, MCP) and the solitaire engine.
//
// GameService owns many sessions, each with its own engine. It serializes
// engine access, turns rejected moves into unsuccessful results and runs
// paced auto-solves in the background.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "klondike", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, service.MoveRequest{
//		From: engine.Top(engine.ZoneTableau, 6),
//		To:   engine.Top(engine.ZoneTableau, 2),
//	})
//
// Errors:
//
// Unknown sessions wrap ErrSessionNotFound and unknown configs wrap
// ErrConfigNotFound. A malformed location surfaces engine.ErrInvalidLocation.
// An illegal move is not an error: the result has Success false and the
// state is unchanged.
//
// Auto-solve:
//
// AutoSolve moves one card home per step, optionally pausing between steps
// and reporting each intermediate state to OnStep. Only one run exists per
// session. Undo, NewGame, DeleteSession, CancelAutoSolve and a second
// AutoSolve all stop the current run.
package service
