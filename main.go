// isolation-local is a terminal application to play Isolation against a
// search agent offline.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"isolation-local/config"
	"isolation-local/engine"
	"isolation-local/engine/local"
	"isolation-local/sgf"
	"isolation-local/types"
	"isolation-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagWidth      = flag.Int("width", 0, "Board width")
	flagHeight     = flag.Int("height", 0, "Board height")
	flagPlayer     = flag.Int("player", 0, "Your side (1 moves first, 2 moves second)")
	flagMethod     = flag.String("method", "", "Search method (minimax or alphabeta)")
	flagEval       = flag.String("eval", "", "Evaluator (weighted_mobility or center_value)")
	flagDepth      = flag.Int("depth", 0, "Fixed search depth, used without -iterative")
	flagIterative  = flag.Bool("iterative", true, "Use iterative deepening")
	flagTurnMs     = flag.Int("turnms", 0, "Agent time per move in milliseconds")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagDebug      = flag.Bool("debug", false, "Write debug-level logs")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var history *ui.HistoryBrowserUI
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("isolation-local %s\n", Version)
		return
	}

	logFile, err := setupLogging(*flagDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	quickStart := *flagQuickStart || *flagFocus
	flag.Visit(func(f *flag.Flag) {
		if applyFlag(cfg, f.Name) {
			quickStart = true
		}
	})

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ♞ isolation ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, gameHint)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyDown:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyRight:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyEnter:
			if selTile := gameBoard.SelectedTile(); selTile != nil {
				gameBoard.PlayMove(*selTile)
			}
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(0, -1)
			case 'j':
				gameBoard.MoveSelection(1, 0)
			case 'k':
				gameBoard.MoveSelection(-1, 0)
			case 'l':
				gameBoard.MoveSelection(0, 1)
			case 'u':
				gameBoard.Undo()
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	setupUI := ui.NewGameSetup(cfg,
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg, nil)
		},
		func() {
			app.Stop()
		},
		func() {
			history.Refresh()
			rootPage.SwitchToPage("history")
		},
	)

	history = ui.NewHistoryBrowser(config.HistoryDir(),
		func() {
			rootPage.SwitchToPage("setup")
		},
		resumeGame,
	)

	rootPage.AddPage("setup", setupUI.Form(), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("history", history.Flex(), true, false)

	if quickStart {
		gameCfg, err := cfg.GameConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		startGame(gameCfg, nil)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Error().Err(err).Msg("application exited")
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	gameBoard.Close()
}

// setupLogging points the global logger at the debug log file; the terminal
// belongs to the UI.
func setupLogging(debug bool) (*os.File, error) {
	path, err := config.LogFile()
	if err != nil {
		return nil, fmt.Errorf("locate log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	log.Info().Str("version", Version).Msg("starting")
	return f, nil
}

// applyFlag copies a command-line flag into the config. It reports whether
// the flag describes a game, which starts one immediately.
func applyFlag(c *config.Config, name string) bool {
	switch name {
	case "width":
		c.Game.DefaultWidth = *flagWidth
	case "height":
		c.Game.DefaultHeight = *flagHeight
	case "player":
		c.Game.DefaultHumanPlayer = *flagPlayer
	case "method":
		c.Agent.Method = *flagMethod
	case "eval":
		c.Agent.Evaluator = *flagEval
	case "depth":
		c.Agent.SearchDepth = *flagDepth
	case "iterative":
		c.Agent.Iterative = *flagIterative
	case "turnms":
		c.Game.TurnTimeMs = *flagTurnMs
	default:
		return false
	}
	return true
}

// startGame starts a game with the given configuration. moves are the moves
// already played when resuming.
func startGame(gameCfg engine.GameConfig, moves []sgf.Move) bool {
	gameBoard.Close()

	eng, err := local.New(gameCfg)
	if err == nil {
		entries := lo.Map(moves, func(m sgf.Move, _ int) ui.MoveEntry {
			return ui.MoveEntry{Player: m.Player, Pos: m.Pos}
		})
		err = gameBoard.ConnectEngine(eng, entries)
		if err != nil {
			eng.Close()
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to start game")
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return false
	}

	gameBoard.SetAgentInfo(agentInfo(gameCfg))
	rootPage.SwitchToPage("gameview")
	return true
}

// resumeGame continues an unfinished game from its record.
func resumeGame(info sgf.GameInfo) {
	c := *cfg
	c.Game.DefaultWidth, c.Game.DefaultHeight = info.Width, info.Height
	c.Game.DefaultHumanPlayer = int(types.Player1)
	if info.Player1 != "Player" {
		c.Game.DefaultHumanPlayer = int(types.Player2)
	}

	gameCfg, err := c.GameConfig()
	var moves []sgf.Move
	if err == nil {
		moves, err = sgf.ParseMoves(info.FilePath)
	}
	if err != nil {
		log.Error().Err(err).Str("file", info.FilePath).Msg("failed to resume game")
		return
	}
	gameCfg.LoadPath = info.FilePath
	// The new record carries the old moves
	if startGame(gameCfg, moves) && gameCfg.RecordDir != "" {
		os.Remove(info.FilePath)
	}
}

func agentInfo(gameCfg engine.GameConfig) string {
	depth := fmt.Sprintf("depth %d", gameCfg.Agent.SearchDepth)
	if gameCfg.Agent.Iterative {
		depth = "deepening"
	}
	return fmt.Sprintf("%s, %s, %dms", gameCfg.Agent.Method, depth, gameCfg.TurnTime.Milliseconds())
}
