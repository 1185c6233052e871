// Package websocket pushes solitaire state to browser clients.
//
// A Hub owns every connection. Clients subscribe to one session with
// /ws?session=<id> and receive JSON messages:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "auto_solve_done", "data": {...}}
//
// A state_update follows every change, including each auto-solve step.
// The connection is listen-only; moves go through the REST API.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, state)
//
// Only the Run goroutine changes the client set. Clients that cannot keep
// up are dropped.
package websocket
