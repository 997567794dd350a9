// Package ui specifies custom controls for tview to assist in playing Isolation in the terminal.
package ui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"isolation-local/config"
	"isolation-local/engine"
	"isolation-local/types"
)

// boardEvent is an engine notification waiting to be applied on the UI goroutine.
type boardEvent struct {
	eng     engine.GameEngine
	move    MoveEntry
	state   *types.BoardState
	outcome string
	end     bool
}

type BoardUI struct {
	Box         *tview.Box
	BoardState  *types.BoardState
	hint        *tview.TextView
	cfg         *config.Config
	finished    bool
	sel         types.Position
	app         *tview.Application
	eng         engine.GameEngine
	styles      []tcell.Color
	infoPanel   *GameInfoPanel
	focusMode   bool
	moveHistory []MoveEntry
	message     string

	mu      sync.Mutex // guards pending
	pending []boardEvent
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *BoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *BoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *BoardUI) IsFocusMode() bool {
	return g.focusMode
}

// SelectedTile returns the cursor position, or nil if there is no cursor.
func (g *BoardUI) SelectedTile() *types.Position {
	if g.sel.IsNoMove() {
		return nil
	}
	pos := g.sel
	return &pos
}

// MoveSelection moves the cursor by dRow rows and dCol columns.
func (g *BoardUI) MoveSelection(dRow, dCol int) {
	if g.BoardState.Finished() {
		g.ResetSelection()
		return
	}
	if g.SelectedTile() == nil {
		g.sel = g.BoardState.LastMove
		if g.sel.IsNoMove() {
			// No previous move made, use board center
			g.sel = types.Position{Row: g.BoardState.Height() / 2, Col: g.BoardState.Width() / 2}
		}
		return
	}
	if g.sel.Row+dRow < 0 || g.sel.Row+dRow >= g.BoardState.Height() {
		return
	}
	if g.sel.Col+dCol < 0 || g.sel.Col+dCol >= g.BoardState.Width() {
		return
	}
	g.sel.Row += dRow
	g.sel.Col += dCol
}

func (g *BoardUI) ResetSelection() {
	g.sel = types.NoMove
}

func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:        tview.NewBox(),
		BoardState: &types.BoardState{LastMove: types.NoMove},
		hint:       hint,
		app:        app,
		sel:        types.NoMove,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(board.draw)
	return board
}

func (g *BoardUI) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	state := g.BoardState
	if state == nil || state.Width() == 0 {
		return x, y, 1, 1
	}
	theme := g.cfg.Theme
	showLegal := theme.ShowLegalMoves && g.eng != nil && g.eng.IsMyTurn()

	// 2 characters per cell for square appearance
	boardW, boardH := state.Width()*2, state.Height()

	for row := 0; row < state.Height(); row++ {
		for col := 0; col < state.Width(); col++ {
			pos := types.Position{Row: row, Col: col}
			bg := g.styles[0]
			if (row+col)%2 == 1 {
				bg = g.styles[3]
			}

			var r rune
			var fg tcell.Color
			switch state.Board[row][col] {
			case types.CellPlayer1:
				r, fg = theme.Symbols.Player1, g.styles[1]
			case types.CellPlayer2:
				r, fg = theme.Symbols.Player2, g.styles[2]
			case types.CellBlocked:
				r, fg = theme.Symbols.Blocked, g.styles[4]
			default:
				r, fg = theme.Symbols.Blank, g.styles[4]
				if showLegal && state.IsLegal(pos) {
					r, fg = theme.Symbols.Legal, g.styles[5]
				}
			}

			if pos == g.sel {
				if theme.DrawCursorBackground {
					bg = g.styles[8]
				} else {
					fg = g.styles[6]
				}
			} else if pos == state.LastMove && theme.DrawLastMovedBackground {
				bg = g.styles[7]
			}

			drawCell(screen, tcell.StyleDefault.Background(bg).Foreground(fg), r, col, row, x+4, y)
		}
	}
	drawCoordinates(screen, x, y, g)
	// Add offset for coordinate display
	return x, y, boardW + 4, boardH + 2
}

// ConnectEngine connects the board to a game engine. history holds the moves
// already on the board when resuming a saved game.
func (g *BoardUI) ConnectEngine(e engine.GameEngine, history []MoveEntry) error {
	g.finished = false
	g.eng = e
	g.message = ""
	g.moveHistory = append([]MoveEntry(nil), history...)
	g.ResetSelection()
	if g.infoPanel != nil {
		g.infoPanel.SetMoveHistory(&g.moveHistory)
		g.infoPanel.SetDecision(nil)
	}

	e.OnMove(func(pos types.Position, player types.Player, boardState *types.BoardState) {
		g.post(boardEvent{eng: e, move: MoveEntry{Player: player, Pos: pos}, state: boardState})
	})

	e.OnGameEnd(func(outcome string) {
		g.post(boardEvent{eng: e, outcome: outcome, end: true})
	})

	if err := e.Connect(); err != nil {
		return err
	}

	g.BoardState = e.GetBoardState()
	g.finished = g.BoardState.Finished()
	g.refreshHint()
	return nil
}

// post queues an engine event and schedules a redraw. Events are applied in
// the order they were posted.
func (g *BoardUI) post(ev boardEvent) {
	g.mu.Lock()
	g.pending = append(g.pending, ev)
	g.mu.Unlock()
	// Spawn goroutine to avoid deadlock when called from the event loop
	go g.app.QueueUpdateDraw(g.drain)
}

func (g *BoardUI) drain() {
	g.mu.Lock()
	events := g.pending
	g.pending = nil
	g.mu.Unlock()

	applied := false
	for _, ev := range events {
		// Events from a closed game
		if ev.eng != g.eng {
			continue
		}
		applied = true
		if ev.end {
			g.finished = true
			g.BoardState = g.eng.GetBoardState()
			g.ResetSelection()
			continue
		}
		g.BoardState = ev.state
		g.moveHistory = append(g.moveHistory, ev.move)
		if ev.move.Player != g.eng.GetPlayer() {
			if d, ok := g.eng.LastDecision(); ok && g.infoPanel != nil {
				g.infoPanel.SetDecision(&d)
			}
		}
	}
	if applied {
		g.refreshHint()
	}
}

// PlayMove plays the human's move at pos.
func (g *BoardUI) PlayMove(pos types.Position) {
	if g.finished || g.eng == nil || !g.eng.IsMyTurn() {
		return
	}
	if err := g.eng.PlayMove(pos); err != nil {
		g.message = err.Error()
	} else {
		g.message = ""
	}
	g.refreshHint()
}

// Undo takes back the last human move and the reply to it.
func (g *BoardUI) Undo() {
	if g.eng == nil {
		return
	}
	if err := g.eng.Undo(); err != nil {
		g.message = err.Error()
		g.refreshHint()
		return
	}
	g.message = ""
	g.finished = false
	g.BoardState = g.eng.GetBoardState()
	if n := g.BoardState.MoveNumber; n < len(g.moveHistory) {
		g.moveHistory = g.moveHistory[:n]
	}
	g.refreshHint()
}

// Close disconnects the engine.
func (g *BoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
	g.eng = nil
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),    // 0
		tcell.PaletteColor(c.Theme.Colors.Player1Color),  // 1
		tcell.PaletteColor(c.Theme.Colors.Player2Color),  // 2
		tcell.PaletteColor(c.Theme.Colors.BoardColorAlt), // 3
		tcell.PaletteColor(c.Theme.Colors.BlockedColor),  // 4
		tcell.PaletteColor(c.Theme.Colors.LegalColor),    // 5
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG), // 6
		tcell.PaletteColor(c.Theme.Colors.LastMovedBG),   // 7
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // 8
	}
	g.cfg = c
}

// SetAgentInfo shows the agent's configuration on the info panel.
func (g *BoardUI) SetAgentInfo(info string) {
	if g.infoPanel != nil {
		g.infoPanel.SetAgentInfo(info)
	}
}

func (g *BoardUI) refreshHint() {
	// Update info panel if available
	if g.infoPanel != nil {
		g.infoPanel.SetBoardState(g.BoardState)
	}

	// Focus mode shows minimal hint
	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var statusLine, turnLine, controlsLine string

	if g.finished {
		statusLine = "───────── Game Complete ─────────\n\n"
		turnLine = fmt.Sprintf("  Result: %s\n", g.BoardState.Outcome)
		controlsLine = "\n  u · undo   q · return to menu"
	} else {
		if g.message != "" {
			statusLine = fmt.Sprintf("  ✗ %s\n\n", g.message)
		}

		if g.eng != nil && g.eng.IsMyTurn() {
			symbol := g.cfg.Theme.Symbols.Player1
			if g.eng.GetPlayer() == types.Player2 {
				symbol = g.cfg.Theme.Symbols.Player2
			}
			turnLine = fmt.Sprintf("  %c Your move (%s)\n", symbol, g.eng.GetPlayer())
		} else {
			turnLine = "  ◌ Thinking...\n"
		}

		controlsLine = `
  hjkl/↑↓←→ move   ⏎ play
         u undo   f focus   q quit`
	}

	g.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

// IsFinished returns true if the game is over.
func (g *BoardUI) IsFinished() bool {
	return g.finished
}

// drawCell draws a board cell (2 characters wide)
func drawCell(s tcell.Screen, c tcell.Style, r rune, col, row, l, t int) {
	s.SetContent(l+col*2, t+row, r, nil, c)
	s.SetContent(l+col*2+1, t+row, ' ', nil, c)
}

func drawCoordinates(s tcell.Screen, x, y int, ui *BoardUI) {
	w, h := ui.BoardState.Width(), ui.BoardState.Height()

	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(ui.styles[8])
	lmHighlight := tcell.StyleDefault.Background(ui.styles[7])

	for col := 0; col < w; col++ {
		_style := style
		if col == ui.sel.Col {
			_style = highlight
		} else if col == ui.BoardState.LastMove.Col {
			_style = lmHighlight
		}
		// 2-char cells
		s.SetContent(x+4+(col*2), y+h+1, rune('a'+col), nil, _style)
		s.SetContent(x+4+(col*2)+1, y+h+1, ' ', nil, _style)
	}

	for row := 0; row < h; row++ {
		_style := style
		if row == ui.sel.Row {
			_style = highlight
		} else if row == ui.BoardState.LastMove.Row {
			_style = lmHighlight
		}
		// Rows are numbered from the bottom
		displayNum := h - row
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		s.SetContent(x+1, y+row, tensRune, nil, _style)
		s.SetContent(x+2, y+row, rune('0'+displayNum%10), nil, _style)
	}
}
