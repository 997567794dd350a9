package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"isolation-local/isolation"
	"isolation-local/types"
)

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath  string
	FileName  string
	Width     int
	Height    int
	Player1   string
	Player2   string
	Date      string
	Result    string
	MoveCount int
}

// Move is one recorded move.
type Move struct {
	Player  types.Player
	Pos     types.Position
	Comment string
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	content := string(data)
	props := parseProperties(content)
	width, height := parseSize(props["SZ"])

	info := &GameInfo{
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		Width:     width,
		Height:    height,
		Player1:   props["PB"],
		Player2:   props["PW"],
		Date:      props["DT"],
		Result:    props["RE"],
		MoveCount: len(parseMoves(content)),
	}

	return info, nil
}

// ParseMoves returns the moves recorded in an SGF file, in order.
func ParseMoves(filePath string) ([]Move, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return parseMoves(string(data)), nil
}

// Replay parses an SGF file and replays its moves on a fresh board.
// It returns the final board and the moves, and fails on the first move
// that is out of turn or illegal.
func Replay(filePath string) (*isolation.Board, []Move, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	content := string(data)
	width, height := parseSize(parseProperties(content)["SZ"])
	board, err := isolation.NewBoard(width, height)
	if err != nil {
		return nil, nil, err
	}

	moves := parseMoves(content)
	for i, m := range moves {
		if m.Player != board.ActivePlayer() {
			return nil, nil, fmt.Errorf("move %d: %s moved out of turn", i+1, m.Player)
		}
		next, err := board.ApplyMove(m.Pos)
		if err != nil {
			return nil, nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		board = next
	}

	return board, moves, nil
}

// parseSize reads SZ[n] or SZ[w:h], defaulting to the standard board.
func parseSize(v string) (int, int) {
	width, height := isolation.DefaultSize, isolation.DefaultSize
	if v == "" {
		return width, height
	}
	w, h, rect := strings.Cut(v, ":")
	if n, err := strconv.Atoi(strings.TrimSpace(w)); err == nil {
		width, height = n, n
	}
	if rect {
		if n, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
			height = n
		}
	}
	return width, height
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)

	// Find the root node: starts after "(;"
	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2

	end := skipNode(content, start)
	extractProps(content[start:end], props)
	return props
}

// skipNode returns the index of the ';' or ')' ending the node starting at i.
func skipNode(content string, i int) int {
	for i < len(content) && content[i] != ';' && content[i] != ')' {
		if content[i] == '[' {
			i++
			for i < len(content) && content[i] != ']' {
				if content[i] == '\\' && i+1 < len(content) {
					i++
				}
				i++
			}
		}
		i++
	}
	if i > len(content) {
		return len(content)
	}
	return i
}

// extractProps parses KEY[value] pairs from a node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		// Skip whitespace
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Read property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		for i < len(node) && node[i] == '[' {
			i++ // skip '['
			var val strings.Builder
			for i < len(node) && node[i] != ']' {
				if node[i] == '\\' && i+1 < len(node) {
					i++ // keep the escaped char
				}
				val.WriteByte(node[i])
				i++
			}
			if i < len(node) {
				i++ // skip ']'
			}
			props[key] = val.String() // last value wins for simple props
		}
	}
}

// parseNodes returns all node strings after the root node.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}
	i := skipNode(content, start+2)

	for i < len(content) && content[i] == ';' {
		end := skipNode(content, i+1)
		nodes = append(nodes, content[i+1:end])
		i = end
	}

	return nodes
}

// parseMoves returns every well-formed move node in content.
func parseMoves(content string) []Move {
	var moves []Move
	for _, node := range parseNodes(content) {
		if m, ok := parseMoveNode(node); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// parseMoveNode extracts the player and position from a move node like
// "B[cc]" or "W[ed]C[depth 4]".
func parseMoveNode(node string) (Move, bool) {
	props := make(map[string]string)
	extractProps(node, props)

	m := Move{Comment: props["C"]}
	coord, ok := props["B"]
	m.Player = types.Player1
	if !ok {
		coord, ok = props["W"]
		m.Player = types.Player2
	}
	if !ok || len(coord) != 2 {
		return Move{}, false
	}

	m.Pos = types.Position{Row: int(coord[1] - 'a'), Col: int(coord[0] - 'a')}
	return m, true
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := ParseHeader(path)
		if err != nil {
			continue
		}
		games = append(games, *info)
	}

	return games, nil
}
