package ui

import (
	"fmt"
	"math"

	"github.com/rivo/tview"

	"isolation-local/agent"
	"isolation-local/engine/local"
	"isolation-local/types"
)

// MoveEntry is one move in the panel's history.
type MoveEntry struct {
	Player types.Player
	Pos    types.Position
}

// GameInfoPanel displays game information, the agent's last decision and
// move history alongside the board.
type GameInfoPanel struct {
	box         *tview.TextView
	boardState  *types.BoardState
	agentInfo   string
	decision    *agent.Decision
	moveHistory *[]MoveEntry
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

// SetAgentInfo sets the agent description line.
func (p *GameInfoPanel) SetAgentInfo(info string) {
	p.agentInfo = info
	p.refresh()
}

// SetDecision shows how the agent chose its last move. nil clears it.
func (p *GameInfoPanel) SetDecision(d *agent.Decision) {
	p.decision = d
	p.refresh()
}

// SetMoveHistory sets a pointer to the move history slice.
func (p *GameInfoPanel) SetMoveHistory(history *[]MoveEntry) {
	p.moveHistory = history
}

// formatScore renders a search score; infinities are proven results.
func formatScore(score float64) string {
	switch {
	case math.IsInf(score, 1):
		return "win"
	case math.IsInf(score, -1):
		return "loss"
	default:
		return fmt.Sprintf("%.2f", score)
	}
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	if p.boardState == nil {
		p.box.SetText("")
		return
	}

	var text string

	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf("[white]Board:[-:-:-] %dx%d\n", p.boardState.Width(), p.boardState.Height())
	text += fmt.Sprintf("[white]Move:[-:-:-] %d\n", p.boardState.MoveNumber)
	if p.agentInfo != "" {
		text += fmt.Sprintf("[white]Agent:[-:-:-] %s\n", p.agentInfo)
	}

	if d := p.decision; d != nil {
		text += "\n[white::b]Last Search[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"
		if d.Fallback {
			text += "[yellow]random fallback[-]\n"
		} else {
			text += fmt.Sprintf("[white]Depth:[-:-:-] %d", d.Depth)
			if d.TimedOut {
				text += " [dimgray](timeout)[-]"
			}
			text += "\n"
			text += fmt.Sprintf("[white]Score:[-:-:-] %s\n", formatScore(d.Score))
		}
		text += fmt.Sprintf("[white]Nodes:[-:-:-] %d\n", d.Stats.Nodes)
		text += fmt.Sprintf("[white]Time:[-:-:-] %dms\n", d.Elapsed.Milliseconds())
	}

	if p.moveHistory != nil && len(*p.moveHistory) > 0 {
		text += "\n[white::b]Moves[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"

		moves := *p.moveHistory
		// Show last N moves that fit, with scroll
		maxVisible := 10
		start := 0
		if len(moves) > maxVisible {
			start = len(moves) - maxVisible
		}

		for i := start; i < len(moves); i++ {
			m := moves[i]

			playerStr := "[white]1[-]"
			if m.Player == types.Player2 {
				playerStr = "[dimgray]2[-]"
			}

			marker := " "
			if i == len(moves)-1 {
				marker = "[white]>[-]"
			}

			coord := local.PosToDisplay(m.Pos, p.boardState.Height())
			text += fmt.Sprintf("%s[dimgray]%3d.[-] %s %s\n", marker, i+1, playerStr, coord)
		}

		if start > 0 {
			text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	p.box.SetText(text)
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint)
	return gameFrame
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	// Keep the agent line and last decision when rebuilding
	infoPanel := NewGameInfoPanel()
	if old := board.infoPanel; old != nil {
		infoPanel.agentInfo = old.agentInfo
		infoPanel.decision = old.decision
	}
	board.infoPanel = infoPanel
	infoPanel.SetMoveHistory(&board.moveHistory)

	if board.BoardState != nil {
		infoPanel.SetBoardState(board.BoardState)
	}

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)         // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false) // Info panel (fixed width)

	// Main vertical flex: board area on top, status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 5, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()

	boardWidth := 18 // default for 7x7
	boardHeight := 9
	if board.BoardState != nil && board.BoardState.Width() > 0 {
		boardWidth = board.BoardState.Width()*2 + 4 // 2 chars per cell + coordinates
		boardHeight = board.BoardState.Height() + 2 // + coordinates
	}

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)               // left spacer
	centerRow.AddItem(board.Box, boardWidth, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)               // right spacer

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false) // bottom spacer
}
