// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory (or the directory given as the first
// argument). It checks:
//   - JSON structure, rejecting unknown fields
//   - Engine validation: required fields, variant, delay and undo bounds, messages
//   - File naming: lowercase config IDs usable in URLs
//   - Playability: sample deals build a legal layout with at least one legal move
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// sampleDeals is the number of seeded deals dealt during the playability check
const sampleDeals = 10

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	id := strings.TrimSuffix(result.File, ".json")
	if id != strings.ToLower(id) || strings.ContainsAny(id, " /\\") {
		result.fail("Config ID %q must be lowercase without spaces or slashes", id)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
	}

	// Deal only configs the engine accepts
	if result.Valid {
		playability := validatePlayability(&config, sampleDeals)
		result.Valid = playability.Valid
		result.Errors = append(result.Errors, playability.Errors...)
	}

	// Add informational data
	if result.Valid {
		moves := "supermoves"
		if config.SingleCardMoves {
			moves = "single-card moves"
		}
		if config.Variant == engine.Klondike {
			moves = "runs"
		}
		maxUndo := "unlimited"
		if config.MaxUndo > 0 {
			maxUndo = fmt.Sprint(config.MaxUndo)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Variant: %s (%s)", config.Variant, moves))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Auto-solve delay: %dms", config.AutoSolveDelayMS))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Max undo: %s", maxUndo))
	}

	return result
}

// validatePlayability deals seeds 1..deals and checks each layout holds the
// whole deck in the expected shape with at least one legal move
func validatePlayability(config *engine.GameConfig, deals int) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	minMoves := -1
	for seed := int64(1); seed <= int64(deals); seed++ {
		game, err := engine.NewEngineWithSeed(config, seed)
		if err != nil {
			result.fail("Seed %d: engine rejected config: %v", seed, err)
			return result
		}
		state := game.GetState()
		rules := game.Rules()

		if n := engine.CountCards(state); n != engine.DeckSize {
			result.fail("Seed %d: deal holds %d cards, expected %d", seed, n, engine.DeckSize)
		}
		if len(state.Tableaus) != rules.TableauCount() || len(state.FreeCells) != rules.FreeCellCount() {
			result.fail("Seed %d: layout has %d tableaus and %d free cells", seed, len(state.Tableaus), len(state.FreeCells))
		}

		moves := len(game.GetPossibleMoves())
		if moves == 0 && !rules.HasStock() {
			result.fail("Seed %d: deal has no legal move", seed)
		}
		if minMoves < 0 || moves < minMoves {
			minMoves = moves
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Sample deals: %d (fewest legal moves: %d)", deals, minMoves))
	}
	return result
}

// main scans the config directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
