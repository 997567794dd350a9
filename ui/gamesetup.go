package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"isolation-local/config"
	"isolation-local/engine"
)

const (
	minBoardSize = 3
	maxBoardSize = 10
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	helpText *tview.TextView
	onStart  func(engine.GameConfig)
	onCancel func()
	onGames  func()

	// settings is a copy of the loaded config edited by the form
	settings config.Config
}

func sizeOptions() []string {
	var sizes []string
	for n := minBoardSize; n <= maxBoardSize; n++ {
		sizes = append(sizes, strconv.Itoa(n))
	}
	return sizes
}

func sizeIndex(n int) int {
	if n < minBoardSize || n > maxBoardSize {
		return 7 - minBoardSize
	}
	return n - minBoardSize
}

// NewGameSetup creates a new game setup form seeded from cfg.
func NewGameSetup(cfg *config.Config, onStart func(engine.GameConfig), onCancel func(), onGames func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		onGames:  onGames,
		settings: *cfg,
	}
	s := &setup.settings

	sides := []string{"Player 1 (move first)", "Player 2 (move second)"}
	methods := []string{"Alpha-beta", "Minimax"}
	methodIndex := 0
	if strings.EqualFold(s.Agent.Method, "minimax") {
		methodIndex = 1
	}

	form := tview.NewForm()

	form.AddDropDown("Width", sizeOptions(), sizeIndex(s.Game.DefaultWidth), func(option string, index int) {
		s.Game.DefaultWidth = minBoardSize + index
	})

	form.AddDropDown("Height", sizeOptions(), sizeIndex(s.Game.DefaultHeight), func(option string, index int) {
		s.Game.DefaultHeight = minBoardSize + index
	})

	form.AddDropDown("Your Side", sides, s.Game.DefaultHumanPlayer-1, func(option string, index int) {
		s.Game.DefaultHumanPlayer = index + 1
	})

	form.AddDropDown("Search", methods, methodIndex, func(option string, index int) {
		if index == 1 {
			s.Agent.Method = "minimax"
		} else {
			s.Agent.Method = "alphabeta"
		}
	})

	form.AddCheckbox("Iterative Deepening", s.Agent.Iterative, func(checked bool) {
		s.Agent.Iterative = checked
	})

	form.AddInputField("Fixed Depth", strconv.Itoa(s.Agent.SearchDepth), 6, tview.InputFieldInteger, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			s.Agent.SearchDepth = val
		}
	})

	form.AddInputField("Turn Time (ms)", strconv.Itoa(s.Game.TurnTimeMs), 8, tview.InputFieldInteger, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			s.Game.TurnTimeMs = val
		}
	})

	form.AddButton("Start Game", func() {
		gameCfg, err := s.GameConfig()
		if err != nil {
			setup.showError(err)
			return
		}
		setup.showHelp()
		onStart(gameCfg)
	})

	form.AddButton("Past Games", func() {
		if onGames != nil {
			onGames()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetBorderColor(MenuColors.Border)
	form.SetLabelColor(MenuColors.Label)
	form.SetFieldBackgroundColor(MenuColors.FieldBG)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	helpText := tview.NewTextView().SetTextAlign(tview.AlignCenter)

	// Create flex layout with form and help text
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	setup.helpText = helpText
	setup.showHelp()
	return setup
}

func (s *GameSetupUI) showHelp() {
	s.helpText.SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm")
	s.helpText.SetTextColor(MenuColors.Hint)
}

func (s *GameSetupUI) showError(err error) {
	s.helpText.SetText(fmt.Sprintf("✗ %s", err))
	s.helpText.SetTextColor(tcell.ColorRed)
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
