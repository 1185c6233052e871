// Package engine provides the solitaire rules engine for FreeCell and Klondike.
//
// The engine package implements:
//   - The card and zone model (free cells, foundations, tableaus, stock, waste)
//   - Seeded deck shuffling and per-variant deals
//   - Move validation and execution, including FreeCell supermoves and
//     Klondike flip-on-expose
//   - Snapshot-based undo
//   - Auto-solve to the foundations and win detection
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the explicit, serializable state of a
// deal. A RuleSet captures what differs between variants; GameConfig selects
// a rule set and its messages and is loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("freecell")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the top card of cascade 0 onto cascade 3
//	err = gameEngine.RequestMove(engine.Top(engine.ZoneTableau, 0), engine.Top(engine.ZoneTableau, 3))
//	if errors.Is(err, engine.ErrIllegalMove) {
//		// rejected, state unchanged
//	}
//
// Errors:
//
// ErrIllegalMove reports a well-formed move the rules reject. ErrInvalidLocation
// reports a location that does not exist in the variant, which is a caller bug
// rather than a bad move. Undo with nothing to undo is not an error.
package engine
