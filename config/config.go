package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"isolation-local/agent"
	"isolation-local/engine"
	"isolation-local/types"
)

var (
	appDir  = "isolation-local"
	cfgFile = appDir + "/config.json"
	logFile = appDir + "/debug.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board"`
	BoardColorAlt int `json:"board_alt"`
	BlockedColor  int `json:"blocked"`
	Player1Color  int `json:"player1"`
	Player2Color  int `json:"player2"`
	LegalColor    int `json:"legal"`
	CursorColorFG int `json:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg"`
	LastMovedBG   int `json:"last_moved_bg"`
}

type ConfigSymbols struct {
	Player1 rune `json:"player1"`
	Player2 rune `json:"player2"`
	Blank   rune `json:"blank"`
	Blocked rune `json:"blocked"`
	Legal   rune `json:"legal"`
}

type Theme struct {
	DrawCursorBackground    bool          `json:"draw_cursor_bg"`
	DrawLastMovedBackground bool          `json:"draw_last_moved_bg"`
	ShowLegalMoves          bool          `json:"show_legal_moves"`
	Colors                  ConfigColors  `json:"colors"`
	Symbols                 ConfigSymbols `json:"symbols"`
}

// GameSettings holds the defaults offered by the setup screen.
type GameSettings struct {
	DefaultWidth       int  `json:"default_width"`
	DefaultHeight      int  `json:"default_height"`
	DefaultHumanPlayer int  `json:"default_human_player"` // 1 moves first
	TurnTimeMs         int  `json:"turn_time_ms"`
	RecordGames        bool `json:"record_games"`
}

// AgentSettings configures the computer player.
type AgentSettings struct {
	SearchDepth     int     `json:"search_depth"`
	Iterative       bool    `json:"iterative"`
	Method          string  `json:"method"`    // "minimax" or "alphabeta"
	Evaluator       string  `json:"evaluator"` // "weighted_mobility" or "center_value"
	HeuristicWeight float64 `json:"heuristic_weight"`
	TimeoutMarginMs int     `json:"timeout_margin_ms"`
}

type Config struct {
	Theme Theme         `json:"theme"`
	Game  GameSettings  `json:"game"`
	Agent AgentSettings `json:"agent"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Player1, c.Theme.Symbols.Player2, c.Theme.Symbols.Blank, c.Theme.Symbols.Blocked} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Game.DefaultWidth < 3 || c.Game.DefaultHeight < 3 {
		return &InvalidConfig{fmt.Sprintf("board must be at least 3x3, got %dx%d", c.Game.DefaultWidth, c.Game.DefaultHeight)}
	}
	if c.Game.DefaultHumanPlayer != 1 && c.Game.DefaultHumanPlayer != 2 {
		return &InvalidConfig{fmt.Sprintf("human player must be 1 or 2, got %d", c.Game.DefaultHumanPlayer)}
	}
	if c.Game.TurnTimeMs <= c.Agent.TimeoutMarginMs {
		return &InvalidConfig{fmt.Sprintf("turn time %dms must exceed the timeout margin %dms", c.Game.TurnTimeMs, c.Agent.TimeoutMarginMs)}
	}
	if _, err := c.Agent.Options(c.Game.DefaultWidth, c.Game.DefaultHeight); err != nil {
		return &InvalidConfig{err.Error()}
	}
	return nil
}

// Options converts the agent settings into agent options for a
// width x height board.
func (a AgentSettings) Options(width, height int) (agent.Options, error) {
	method, err := agent.ParseMethod(a.Method)
	if err != nil {
		return agent.Options{}, err
	}
	eval, err := agent.NewEvaluator(a.Evaluator, width, height, a.HeuristicWeight)
	if err != nil {
		return agent.Options{}, err
	}
	opts := agent.Options{
		SearchDepth:   a.SearchDepth,
		Iterative:     a.Iterative,
		Method:        method,
		Evaluator:     eval,
		TimeoutMargin: time.Duration(a.TimeoutMarginMs) * time.Millisecond,
	}
	if err := opts.Validate(); err != nil {
		return agent.Options{}, err
	}
	return opts, nil
}

// GameConfig builds the engine configuration for a new game from the game
// and agent sections.
func (c *Config) GameConfig() (engine.GameConfig, error) {
	if err := c.Validate(); err != nil {
		return engine.GameConfig{}, err
	}
	opts, err := c.Agent.Options(c.Game.DefaultWidth, c.Game.DefaultHeight)
	if err != nil {
		return engine.GameConfig{}, err
	}
	gameCfg := engine.GameConfig{
		Width:       c.Game.DefaultWidth,
		Height:      c.Game.DefaultHeight,
		HumanPlayer: types.Player(c.Game.DefaultHumanPlayer),
		TurnTime:    c.Game.TurnTime(),
		Agent:       opts,
	}
	if c.Game.RecordGames {
		gameCfg.RecordDir = HistoryDir()
	}
	return gameCfg, nil
}

// TurnTime is the time the agent gets per move.
func (g GameSettings) TurnTime() time.Duration {
	return time.Duration(g.TurnTimeMs) * time.Millisecond
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

// HistoryDir is where game records are written.
func HistoryDir() string {
	return filepath.Join(xdg.DataHome, appDir, "history")
}

// LogFile returns the debug log path, creating its directory.
func LogFile() (string, error) {
	return xdg.CacheFile(logFile)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
