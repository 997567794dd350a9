package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"isolation-local/agent"
	"isolation-local/types"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"control symbol", func(c *Config) { c.Theme.Symbols.Blank = '\t' }},
		{"tiny board", func(c *Config) { c.Game.DefaultWidth = 2 }},
		{"bad player", func(c *Config) { c.Game.DefaultHumanPlayer = 3 }},
		{"turn inside margin", func(c *Config) { c.Game.TurnTimeMs = 5 }},
		{"unknown method", func(c *Config) { c.Agent.Method = "mcts" }},
		{"unknown evaluator", func(c *Config) { c.Agent.Evaluator = "open_moves" }},
		{"zero fixed depth", func(c *Config) { c.Agent.Iterative = false; c.Agent.SearchDepth = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig
		tt.modify(&cfg)
		err := cfg.Validate()
		var invalid *InvalidConfig
		if !errors.As(err, &invalid) {
			t.Errorf("%s: expected InvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestAgentOptions(t *testing.T) {
	settings := AgentSettings{
		SearchDepth:     4,
		Iterative:       false,
		Method:          "minimax",
		Evaluator:       "center_value",
		TimeoutMarginMs: 25,
	}
	opts, err := settings.Options(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Method != agent.Minimax || opts.SearchDepth != 4 || opts.Iterative {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.TimeoutMargin != 25*time.Millisecond {
		t.Fatalf("unexpected margin %v", opts.TimeoutMargin)
	}
	if _, ok := opts.Evaluator.(*agent.CenterValue); !ok {
		t.Fatalf("expected center value evaluator, got %T", opts.Evaluator)
	}

	def, err := DefaultConfig.Agent.Options(7, 7)
	if err != nil {
		t.Fatal(err)
	}
	if w, ok := def.Evaluator.(agent.WeightedMobility); !ok || w.Weight != 1.5 {
		t.Fatalf("expected weighted mobility 1.5, got %#v", def.Evaluator)
	}
}

func TestGameConfig(t *testing.T) {
	cfg := DefaultConfig
	cfg.Game.DefaultWidth, cfg.Game.DefaultHeight = 5, 6
	cfg.Game.DefaultHumanPlayer = 2
	cfg.Game.TurnTimeMs = 250
	cfg.Game.RecordGames = false

	gameCfg, err := cfg.GameConfig()
	if err != nil {
		t.Fatal(err)
	}
	if gameCfg.Width != 5 || gameCfg.Height != 6 || gameCfg.HumanPlayer != types.Player2 {
		t.Fatalf("unexpected game config %+v", gameCfg)
	}
	if gameCfg.TurnTime != 250*time.Millisecond || gameCfg.RecordDir != "" {
		t.Fatalf("unexpected turn time or record dir %+v", gameCfg)
	}
	if gameCfg.Agent.Method != agent.AlphaBeta || !gameCfg.Agent.Iterative {
		t.Fatalf("unexpected agent options %+v", gameCfg.Agent)
	}

	cfg.Game.RecordGames = true
	gameCfg, err = cfg.GameConfig()
	if err != nil {
		t.Fatal(err)
	}
	if gameCfg.RecordDir != HistoryDir() {
		t.Fatalf("RecordDir = %q, want %q", gameCfg.RecordDir, HistoryDir())
	}

	cfg.Agent.Method = "mcts"
	if _, err := cfg.GameConfig(); err == nil {
		t.Fatal("expected error for an unknown method")
	}
}

func TestSaveAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig
	cfg.Game.DefaultWidth = 9
	cfg.Agent.Method = "minimax"
	if err := saveCfgFile(path, &cfg, 0664); err != nil {
		t.Fatal(err)
	}

	loaded := DefaultConfig
	if err := readCfgFile(path, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.Game.DefaultWidth != 9 || loaded.Agent.Method != "minimax" {
		t.Fatalf("unexpected loaded config %+v", loaded)
	}
	if loaded.Theme.Symbols.Player1 != DefaultTheme.Symbols.Player1 {
		t.Fatal("theme symbols should round trip")
	}
}

func TestReadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"agent": {"method": "minimax"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig
	if err := readCfgFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Agent.Method != "minimax" || cfg.Agent.Evaluator != "weighted_mobility" {
		t.Fatalf("partial file should only override what it sets, got %+v", cfg.Agent)
	}
}

func TestReadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"agent": `), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig
	var invalid *InvalidConfig
	if err := readCfgFile(path, &cfg); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}
