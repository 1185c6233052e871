package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	switch config.Variant {
	case FreeCell:
	case Klondike:
		if config.SingleCardMoves {
			return fmt.Errorf("config validation: single_card_moves is only supported for the freecell variant")
		}
	case "":
		return fmt.Errorf("config validation: variant is required")
	default:
		return fmt.Errorf("config validation: variant must be %q or %q, got %q", FreeCell, Klondike, config.Variant)
	}

	if config.AutoSolveDelayMS < 0 || config.AutoSolveDelayMS > MaxAutoSolveDelayMS {
		return fmt.Errorf("config validation: auto_solve_delay_ms must be between 0 and %d, got %d",
			MaxAutoSolveDelayMS, config.AutoSolveDelayMS)
	}
	if config.MaxUndo < 0 || config.MaxUndo > MaxUndoLimit {
		return fmt.Errorf("config validation: max_undo must be between 0 and %d, got %d", MaxUndoLimit, config.MaxUndo)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Variant == Klondike && config.Messages.StockRecycled == "" {
		return fmt.Errorf("config validation: messages.stock_recycled is required for klondike")
	}
	if strings.Contains(config.Messages.Victory, "%") {
		return fmt.Errorf("config validation: messages.victory must not contain format verbs")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// CONFIG_DIR replaces a leading "configs/" in the path
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a game configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	dir := "configs"
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		dir = configDir
	}
	configPath := filepath.Join(dir, configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configName, err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configName, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}

	return &config, nil
}

// DefaultConfig returns the built-in configuration for a variant
func DefaultConfig(variant Variant) *GameConfig {
	config := &GameConfig{
		Name:             string(variant),
		Variant:          variant,
		AutoSolveDelayMS: DefaultAutoSolveMS,
		Messages: Messages{
			Welcome:        "New deal. Good luck!",
			Victory:        "Congratulations! All cards are home.",
			IllegalMove:    "That move is not allowed.",
			Undo:           "Move undone.",
			NothingToUndo:  "Nothing to undo.",
			StockRecycled:  "Waste turned back into the stock.",
			AutoSolveStuck: "No card can go to a foundation right now.",
		},
	}
	switch variant {
	case Klondike:
		config.Description = "Klondike: build down in alternating colors, kings fill empty tableaus, draw one from the stock"
	default:
		config.Variant = FreeCell
		config.Name = string(FreeCell)
		config.Description = "FreeCell: four free cells, eight cascades, supermoves allowed"
	}
	return config
}

// InitGameStateFromConfig shuffles a deck with seed and deals it with rules
func InitGameStateFromConfig(config *GameConfig, rules RuleSet, seed int64) *GameState {
	if config == nil {
		config = DefaultConfig(rules.Variant())
	}

	state := rules.Deal(ShuffledDeck(seed))
	state.GameID = newGameID()
	state.ConfigName = config.Name
	state.Seed = seed
	state.Message = config.Messages.Welcome
	return state
}
