package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

const validFreeCell = `{
	"name": "Test FreeCell",
	"description": "Test configuration",
	"variant": "freecell",
	"single_card_moves": false,
	"auto_solve_delay_ms": 100,
	"max_undo": 0,
	"messages": {
		"welcome": "Welcome!",
		"victory": "Victory!",
		"illegal_move": "Nope.",
		"undo": "Undone.",
		"nothing_to_undo": "Nothing to undo.",
		"auto_solve_stuck": "Stuck."
	}
}`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasError(result ValidationResult, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeTempConfig(t, "test_freecell.json", validFreeCell)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test_freecell.json" {
		t.Errorf("Expected file name test_freecell.json, got %s", result.File)
	}

	for _, info := range []string{"✓ Name: Test FreeCell", "✓ Variant: freecell (supermoves)", "✓ Max undo: unlimited", "✓ Sample deals: 10"} {
		if !hasError(result, info) {
			t.Errorf("Expected info line %q, got %v", info, result.Errors)
		}
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	result := validateConfig(writeTempConfig(t, "broken.json", `{"name": "test", invalid json}`))

	if result.Valid {
		t.Error("Expected invalid result for malformed JSON")
	}
	if !hasError(result, "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got: %v", result.Errors)
	}
}

func TestValidateConfig_UnknownField(t *testing.T) {
	content := strings.Replace(validFreeCell, `"max_undo": 0,`, `"max_undo": 0, "grid_size": 5,`, 1)
	result := validateConfig(writeTempConfig(t, "extra.json", content))

	if result.Valid || !hasError(result, "grid_size") {
		t.Errorf("Expected unknown field to be rejected, got %v", result.Errors)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")

	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasError(result, "Failed to read file") {
		t.Errorf("Expected 'Failed to read file' error, got: %v", result.Errors)
	}
}

func TestValidateConfig_EngineRules(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		wantErr string
	}{
		{"unknown variant", `"variant": "freecell"`, `"variant": "spider"`, "variant"},
		{"delay too long", `"auto_solve_delay_ms": 100`, `"auto_solve_delay_ms": 9000`, "auto_solve_delay_ms"},
		{"missing victory", `"victory": "Victory!",`, ``, "messages.victory"},
		{"klondike without recycle message", `"variant": "freecell"`, `"variant": "klondike"`, "stock_recycled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(validFreeCell, tt.old, tt.new, 1)
			result := validateConfig(writeTempConfig(t, "cfg.json", content))

			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasError(result, tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, result.Errors)
			}
			if hasError(result, "✓") {
				t.Errorf("Invalid configs carry no info lines: %v", result.Errors)
			}
		})
	}
}

func TestValidateConfig_FileName(t *testing.T) {
	result := validateConfig(writeTempConfig(t, "My Config.json", validFreeCell))

	if result.Valid || !hasError(result, "must be lowercase") {
		t.Errorf("Expected file name error, got %v", result.Errors)
	}
}

func TestValidatePlayability(t *testing.T) {
	for _, variant := range []engine.Variant{engine.FreeCell, engine.Klondike} {
		t.Run(string(variant), func(t *testing.T) {
			result := validatePlayability(engine.DefaultConfig(variant), 5)
			if !result.Valid {
				t.Errorf("Expected playable deals, got %v", result.Errors)
			}
			if !hasError(result, "✓ Sample deals: 5") {
				t.Errorf("Expected summary line, got %v", result.Errors)
			}
		})
	}
}

func TestShippedConfigs(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "configs", "*.json"))
	if err != nil || len(files) == 0 {
		t.Fatalf("Expected shipped configs, got %v %v", files, err)
	}
	for _, file := range files {
		if result := validateConfig(file); !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}
