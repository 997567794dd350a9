// Package local provides an in-process engine that plays Isolation with the
// search agent.
package local

import (
	"fmt"
	"strconv"
	"strings"

	"isolation-local/types"
)

// Display coordinate system:
// - Columns: a, b, c, ... (left to right)
// - Rows: 1..height (from bottom of board)
// - Example: a1 is the bottom-left cell, c5 is column 2, third row from top on a 7x7 board
//
// Board coordinate system:
// - Row: 0..height-1 (top to bottom)
// - Col: 0..width-1 (left to right)

// PosToDisplay converts a board position to display notation.
// For a 7x7 board: (6, 0) -> a1, (0, 6) -> g7, (2, 2) -> c5.
func PosToDisplay(pos types.Position, height int) string {
	if pos.IsNoMove() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(pos.Col), height-pos.Row)
}

// DisplayToPos converts display notation to a board position.
func DisplayToPos(s string, width, height int) (types.Position, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 2 {
		return types.NoMove, fmt.Errorf("invalid coordinate: %q", s)
	}

	col := int(s[0]) - 'a'
	if col < 0 || col >= width {
		return types.NoMove, fmt.Errorf("invalid column in coordinate: %q", s)
	}

	rank, err := strconv.Atoi(s[1:])
	if err != nil {
		return types.NoMove, fmt.Errorf("invalid row in coordinate: %q", s)
	}

	row := height - rank
	if row < 0 || row >= height {
		return types.NoMove, fmt.Errorf("coordinate out of bounds: %q", s)
	}

	return types.Position{Row: row, Col: col}, nil
}
