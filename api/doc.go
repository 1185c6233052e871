// Package api exposes the solitaire service over HTTP with gorilla/mux.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions               {"config_id": "klondike", "seed": 42}
//   - GET    /api/sessions               ?sort=created|accessed&order=asc|desc&limit=N
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Play:
//   - GET    /api/sessions/{id}/state
//   - POST   /api/sessions/{id}/move         {"from": {"zone": "tableau", "index": 3, "card_index": 5}, "to": {"zone": "foundation", "index": 1}}
//   - POST   /api/sessions/{id}/draw
//   - POST   /api/sessions/{id}/undo
//   - POST   /api/sessions/{id}/new-game     {"seed": 7}
//   - POST   /api/sessions/{id}/auto-solve   {"async": true, "delay_ms": 250}
//   - DELETE /api/sessions/{id}/auto-solve
//   - GET    /api/sessions/{id}/destinations ?zone=tableau&index=3&card_index=5
//   - GET    /api/sessions/{id}/moves
//   - GET    /api/sessions/{id}/history      ?page=1&limit=20&order=desc
//
// Configuration:
//   - GET  /api/configs
//   - POST /api/configs                  ?id=my_variant
//   - GET  /api/configs/{name}
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}
//
// Status codes:
//
// An illegal move is a normal answer: 200 with "success": false and the
// unchanged state. Malformed input (unknown zone, index out of range, bad
// JSON) is 400. Unknown sessions and configs are 404.
//
// Every successful change is also broadcast to websocket subscribers of the
// session, including each step of an auto-solve.
package api
