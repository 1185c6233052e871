package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

func createValidConfig(variant engine.Variant) *engine.GameConfig {
	config := engine.DefaultConfig(variant)
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "freecell", createValidConfig(engine.FreeCell))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Variant != engine.FreeCell {
			t.Errorf("Expected built-in FreeCell default, got %s", defaultConfig.Variant)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "freecell", createValidConfig(engine.FreeCell))

	klondike := createValidConfig(engine.Klondike)
	klondike.Name = "Klondike"
	klondike.MaxUndo = 50
	writeConfigFile(t, dir, "klondike", klondike)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("klondike")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Variant != engine.Klondike || config.MaxUndo != 50 {
			t.Errorf("Unexpected config: %+v", config)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("klondike.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Klondike" {
			t.Errorf("Expected config name 'Klondike', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("klondike")
		config2, err := manager.LoadConfig("klondike.json")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("spider")
		if err != ErrConfigNotFound {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		_, err := manager.LoadConfig("../freecell")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalid := []byte(`{"name": "Broken", "variant": "spider"}`)
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalid, 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformed := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformed, 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err := manager.LoadConfig("malformed")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for malformed JSON, got %v", err)
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("prefers freecell", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "aaa", createValidConfig(engine.Klondike))
		preferred := createValidConfig(engine.FreeCell)
		preferred.Name = "Preferred"
		writeConfigFile(t, dir, "freecell", preferred)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Preferred" {
			t.Errorf("Expected freecell.json as default, got %q", got)
		}
	})

	t.Run("first available otherwise", func(t *testing.T) {
		dir := t.TempDir()
		only := createValidConfig(engine.Klondike)
		only.Name = "Only"
		writeConfigFile(t, dir, "klondike", only)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Only" {
			t.Errorf("Expected first config as default, got %q", got)
		}
	})
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "freecell", createValidConfig(engine.FreeCell))
	writeConfigFile(t, dir, "klondike", createValidConfig(engine.Klondike))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("klondike"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Variant != engine.Klondike {
		t.Error("Expected klondike default")
	}
	if err := manager.SetDefault("missing"); err != ErrConfigNotFound {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	classic := createValidConfig(engine.FreeCell)
	classic.Name = "Classic"
	classic.SingleCardMoves = true
	writeConfigFile(t, dir, "freecell_classic", classic)
	writeConfigFile(t, dir, "klondike", createValidConfig(engine.Klondike))
	writeConfigFile(t, dir, "freecell", createValidConfig(engine.FreeCell))

	// Ignored: non-JSON, invalid and directories
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.json"), 0755)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 3 {
		t.Fatalf("Expected 3 configs, got %d", len(configList))
	}

	wantIDs := []string{"freecell", "freecell_classic", "klondike"}
	for i, info := range configList {
		if info.ConfigID != wantIDs[i] {
			t.Errorf("Config %d: expected id %s, got %s", i, wantIDs[i], info.ConfigID)
		}
		if info.Filename != info.ConfigID+".json" {
			t.Errorf("Unexpected filename %s", info.Filename)
		}
	}
	if !configList[1].SingleCardMoves || configList[1].Name != "Classic" {
		t.Errorf("Expected classic details, got %+v", configList[1])
	}
	if configList[2].Variant != string(engine.Klondike) {
		t.Errorf("Expected klondike variant, got %s", configList[2].Variant)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("valid config is written and cached", func(t *testing.T) {
		config := createValidConfig(engine.Klondike)
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected file on disk: %v", err)
		}
		loaded, err := manager.LoadConfig("saved")
		if err != nil || loaded != config {
			t.Errorf("Expected cached config, got %v %v", loaded, err)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		config := createValidConfig(engine.FreeCell)
		config.Variant = "spider"
		if err := manager.SaveConfig("spider", config); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "spider.json")); !os.IsNotExist(err) {
			t.Error("Invalid config should not be written")
		}
	})

	t.Run("bad name is rejected", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", createValidConfig(engine.FreeCell)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig(engine.FreeCell)
	config.MaxUndo = 10
	writeConfigFile(t, dir, "freecell", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if manager.GetDefault().MaxUndo != 10 {
		t.Fatalf("Unexpected initial default: %+v", manager.GetDefault())
	}

	config.MaxUndo = 20
	writeConfigFile(t, dir, "freecell", config)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	if manager.GetDefault().MaxUndo != 20 {
		t.Errorf("Expected refreshed default, got %d", manager.GetDefault().MaxUndo)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected only the default cached, got %d", manager.Count())
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig(engine.Klondike)
	config.AutoSolveDelayMS = 100
	writeConfigFile(t, dir, "klondike", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("klondike")
	if loaded.AutoSolveDelayMS != 100 {
		t.Errorf("Expected initial delay 100, got %d", loaded.AutoSolveDelayMS)
	}

	config.AutoSolveDelayMS = 400
	writeConfigFile(t, dir, "klondike", config)

	if err := manager.ReloadConfig("klondike"); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	reloaded, _ := manager.LoadConfig("klondike")
	if reloaded.AutoSolveDelayMS != 400 {
		t.Errorf("Expected reloaded delay 400, got %d", reloaded.AutoSolveDelayMS)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		config := createValidConfig(engine.FreeCell)
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
			if id%10 == 0 {
				manager.RefreshCache()
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
}

// Test-only helpers

func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, configKey(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
