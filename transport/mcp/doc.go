// Package mcp exposes the solitaire REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one REST request
// against a running server, and the JSON reply is rendered as text for the
// agent. The package never touches game state directly.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: board rendered as text
//   - move, draw, undo, new_game
//   - auto_solve: send playable cards to the foundations
//   - legal_destinations, possible_moves
//   - move_history: paged action log
//   - list_configs, game_instructions
//
// Transport Modes:
//
// The same MCP server is served over stdio (stdio-mcp command) or mounted
// at /mcp by the HTTP server.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
