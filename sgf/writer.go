// Package sgf writes and reads Isolation game records in SGF FF[4] syntax.
//
// Player 1 is recorded as B and player 2 as W. A point is written as two
// letters, column first: (row 2, col 0) is "ac". Rectangular boards use the
// SZ[width:height] form.
package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"isolation-local/types"
)

// GameRecord tracks a game in progress and writes it as SGF.
type GameRecord struct {
	FilePath string
	Width    int
	Height   int
	Player1  string
	Player2  string
	Date     string
	Result   string
	moves    []string // ";B[cc]", ";W[ed]C[depth 4]", ...
	file     *os.File
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
// human is the side played at the keyboard; agentName labels the other one.
func NewGameRecord(dir string, width, height int, human types.Player, agentName string) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s_%dx%d.sgf", now.Format("2006-01-02_150405.000"), width, height)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	p1, p2 := "Player", agentName
	if human == types.Player2 {
		p1, p2 = agentName, "Player"
	}

	rec := &GameRecord{
		FilePath: path,
		Width:    width,
		Height:   height,
		Player1:  p1,
		Player2:  p2,
		Date:     now.Format("2006-01-02"),
		Result:   "?",
		file:     f,
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}

	return rec, nil
}

// sgfCoord converts a board position to an SGF letter pair, column first.
// (0,0) -> "aa", (2,0) -> "ac", (4,3) -> "de".
func sgfCoord(pos types.Position) string {
	return string(rune('a'+pos.Col)) + string(rune('a'+pos.Row))
}

func playerProp(player types.Player) string {
	if player == types.Player2 {
		return "W"
	}
	return "B"
}

// AddMove appends a move to the record. A non-empty comment is stored in a
// C[] property on the move node.
func (r *GameRecord) AddMove(pos types.Position, player types.Player, comment string) error {
	if pos.IsNoMove() {
		return fmt.Errorf("cannot record %v", pos)
	}
	node := fmt.Sprintf(";%s[%s]", playerProp(player), sgfCoord(pos))
	if comment != "" {
		node += "C[" + escapeText(comment) + "]"
	}
	r.moves = append(r.moves, node)
	return r.flush()
}

// MoveCount returns the number of recorded moves.
func (r *GameRecord) MoveCount() int {
	return len(r.moves)
}

// UndoMoves removes the last n moves from the record.
func (r *GameRecord) UndoMoves(n int) error {
	if n > len(r.moves) {
		n = len(r.moves)
	}
	r.moves = r.moves[:len(r.moves)-n]
	r.Result = "?"
	return r.flush()
}

// SetResult parses a game outcome string and sets the SGF RE property.
// Accepts outcomes like "Player 1 wins" or "Player 2 wins by time" as well as
// already-formatted SGF like "B+", "W+T".
func (r *GameRecord) SetResult(outcome string) error {
	r.Result = parseResult(outcome)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder

	// Root node
	b.WriteString("(;FF[4]CA[UTF-8]AP[isolation-local:1.0]GN[Isolation]")
	if r.Width == r.Height {
		b.WriteString(fmt.Sprintf("SZ[%d]", r.Width))
	} else {
		b.WriteString(fmt.Sprintf("SZ[%d:%d]", r.Width, r.Height))
	}
	b.WriteString(fmt.Sprintf("PB[%s]", escapeText(r.Player1)))
	b.WriteString(fmt.Sprintf("PW[%s]", escapeText(r.Player2)))
	b.WriteString(fmt.Sprintf("DT[%s]", r.Date))
	b.WriteString(fmt.Sprintf("RE[%s]", r.Result))
	b.WriteString("\n")

	for _, m := range r.moves {
		b.WriteString(m)
	}

	b.WriteString(")\n")

	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "]", `\]`)
}

// parseResult converts various outcome formats to SGF RE[] value.
func parseResult(outcome string) string {
	o := strings.TrimSpace(outcome)

	if isValidSGFResult(o) {
		return o
	}

	low := strings.ToLower(o)

	var winner string
	switch {
	case strings.HasPrefix(low, "player 1 wins"):
		winner = "B"
	case strings.HasPrefix(low, "player 2 wins"):
		winner = "W"
	default:
		return "?"
	}

	byIdx := strings.Index(low, " by ")
	if byIdx == -1 {
		return winner + "+"
	}
	rest := strings.TrimSpace(low[byIdx+4:])

	switch {
	case strings.HasPrefix(rest, "resign"):
		return winner + "+R"
	case strings.HasPrefix(rest, "time"):
		return winner + "+T"
	case strings.HasPrefix(rest, "forfeit"):
		return winner + "+F"
	}
	return winner + "+"
}

// isValidSGFResult checks if a string is already a valid Isolation result.
// There are no draws, and a win carries no score.
func isValidSGFResult(s string) bool {
	if s == "?" || s == "Void" {
		return true
	}
	if len(s) < 2 || (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	switch s[2:] {
	case "", "R", "T", "F":
		return true
	}
	return false
}
