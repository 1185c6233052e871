// Package config loads and caches solitaire game configurations.
//
// Configurations are JSON files in a directory (configs/ by default). Each
// one selects a variant and tunes it:
//
//	{
//	  "name": "FreeCell",
//	  "description": "FreeCell with supermoves",
//	  "variant": "freecell",
//	  "single_card_moves": false,
//	  "auto_solve_delay_ms": 200,
//	  "max_undo": 0,
//	  "messages": {"welcome": "...", "victory": "..."}
//	}
//
// The config id is the file name without .json; that is what sessions are
// created with. freecell.json is the default when present.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	klondike, err := manager.LoadConfig("klondike")
//	configs, err := manager.ListConfigs()
//
// Every file is checked with engine.ValidateGameConfig before it is cached.
package config
