package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"isolation-local/sgf"
	"isolation-local/types"
)

// HistoryBrowserUI provides a screen for browsing saved game records.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	games    []sgf.GameInfo
	boards   map[int]*types.BoardState // cached final positions
	selected int
	onDone   func()
	onResume func(info sgf.GameInfo)
}

// NewHistoryBrowser creates a new history browser screen over the records in dir.
// onResume is called when the player picks an unfinished game to continue.
func NewHistoryBrowser(dir string, onDone func(), onResume func(info sgf.GameInfo)) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		dir:      dir,
		onDone:   onDone,
		onResume: onResume,
		boards:   make(map[int]*types.BoardState),
	}

	// Game list (left panel)
	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Game History ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	// Preview box (right panel)
	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Preview ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	// Hint bar
	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]r[-] resume  [dimgray]d[-] delete  [dimgray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})

	hb.gameList.SetInputCapture(hb.handleInput)

	// Layout: list left, preview right, hint bottom
	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 38, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadGames()
	return hb
}

// Flex returns the flex container for this UI.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the game list from disk.
func (hb *HistoryBrowserUI) Refresh() {
	hb.boards = make(map[int]*types.BoardState)
	hb.loadGames()
}

func (hb *HistoryBrowserUI) loadGames() {
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := sgf.ListGames(hb.dir)
	if err != nil || len(games) == 0 {
		hb.gameList.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		result := g.Result
		if result == "" || result == "?" {
			result = "..."
		}
		label := fmt.Sprintf("%s  %dx%d  %s", g.Date, g.Width, g.Height, result)
		hb.gameList.AddItem(label, "", 0, nil)
	}
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.onDone != nil {
			hb.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.onDone != nil {
				hb.onDone()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		case 'r':
			hb.resumeSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowserUI) resumeSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) || hb.onResume == nil {
		return
	}
	game := hb.games[hb.selected]
	if state := hb.board(hb.selected); state == nil || state.Finished() {
		return
	}
	hb.onResume(game)
}

func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}

	os.Remove(hb.games[hb.selected].FilePath)
	hb.Refresh()
}

// board lazily replays and caches the final position of game i.
func (hb *HistoryBrowserUI) board(i int) *types.BoardState {
	if state, ok := hb.boards[i]; ok {
		return state
	}
	var state *types.BoardState
	if b, _, err := sgf.Replay(hb.games[i].FilePath); err == nil {
		state = b.Snapshot()
	}
	hb.boards[i] = state
	return state
}

// drawPreview renders a mini board preview and game metadata.
func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}

	game := hb.games[hb.selected]
	state := hb.board(hb.selected)
	startX := x + 2
	startY := y + 1

	if state == nil {
		drawText(screen, startX, startY, "Unreadable record", tcell.StyleDefault.Foreground(tcell.ColorRed))
		return x, y, width, height
	}

	w, h := state.Width(), state.Height()
	if width < w*2+4 || height < h+6 {
		return x, y, width, height
	}

	blankStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	blockedStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	p1Style := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	p2Style := tcell.StyleDefault.Foreground(tcell.PaletteColor(109)).Bold(true)

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			ch, style := '·', blankStyle
			switch state.Board[row][col] {
			case types.CellBlocked:
				ch, style = '▪', blockedStyle
			case types.CellPlayer1:
				ch, style = '1', p1Style
			case types.CellPlayer2:
				ch, style = '2', p2Style
			}
			screen.SetContent(startX+col*2, startY+row, ch, nil, style)
		}
	}

	// Metadata below the board
	infoY := startY + h + 1
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))

	drawText(screen, startX, infoY, fmt.Sprintf("%dx%d | %d moves", w, h, game.MoveCount), infoStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("1: %s", game.Player1), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("2: %s", game.Player2), dimStyle)

	infoY++
	result := game.Result
	if result == "" || result == "?" {
		result = "Unfinished"
	}
	resultStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(109))
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", result), resultStyle)

	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
