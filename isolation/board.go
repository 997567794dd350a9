// Package isolation implements the Isolation board: two players each move
// like a chess knight, and every cell a player lands on is blocked for the
// rest of the game. A player who cannot move on their turn loses.
package isolation

import (
	"fmt"
	"strings"

	"isolation-local/types"
)

// DefaultSize is the width and height of a standard board.
const DefaultSize = 7

// knightDirections is the fixed enumeration order of legal moves.
var knightDirections = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Board is an immutable Isolation position.
type Board struct {
	width     int
	height    int
	blocked   []bool // indexed row*width + col
	locations [3]types.Position
	active    types.Player
	moveCount int
	lastMove  types.Position
}

// NewBoard creates an empty width x height board with Player1 to move.
func NewBoard(width, height int) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid board size %dx%d", width, height)
	}
	return &Board{
		width:     width,
		height:    height,
		blocked:   make([]bool, width*height),
		locations: [3]types.Position{types.NoMove, types.NoMove, types.NoMove},
		active:    types.Player1,
		lastMove:  types.NoMove,
	}, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// MoveCount is the number of moves played so far.
func (b *Board) MoveCount() int { return b.moveCount }

// ActivePlayer is the player to move.
func (b *Board) ActivePlayer() types.Player { return b.active }

// InactivePlayer is the player who just moved.
func (b *Board) InactivePlayer() types.Player { return b.active.Opponent() }

// LastMove is the most recent move, or NoMove at the start.
func (b *Board) LastMove() types.Position { return b.lastMove }

func (b *Board) Opponent(p types.Player) types.Player { return p.Opponent() }

func (b *Board) PlayerLocation(p types.Player) types.Position {
	if p != types.Player1 && p != types.Player2 {
		return types.NoMove
	}
	return b.locations[p]
}

func (b *Board) inBounds(pos types.Position) bool {
	return pos.Row >= 0 && pos.Row < b.height && pos.Col >= 0 && pos.Col < b.width
}

func (b *Board) isBlank(pos types.Position) bool {
	return b.inBounds(pos) && !b.blocked[pos.Row*b.width+pos.Col]
}

// BlankSpaces lists the open cells in row-major order.
func (b *Board) BlankSpaces() []types.Position {
	spaces := make([]types.Position, 0, len(b.blocked))
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if !b.blocked[row*b.width+col] {
				spaces = append(spaces, types.Position{Row: row, Col: col})
			}
		}
	}
	return spaces
}

// LegalMoves returns the knight moves open to p. A player who has not been
// placed yet may take any blank cell.
func (b *Board) LegalMoves(p types.Player) []types.Position {
	loc := b.PlayerLocation(p)
	if loc.IsNoMove() {
		return b.BlankSpaces()
	}
	moves := make([]types.Position, 0, len(knightDirections))
	for _, d := range knightDirections {
		next := types.Position{Row: loc.Row + d[0], Col: loc.Col + d[1]}
		if b.isBlank(next) {
			moves = append(moves, next)
		}
	}
	return moves
}

// IsLegal reports whether the active player may move to pos.
func (b *Board) IsLegal(pos types.Position) bool {
	for _, m := range b.LegalMoves(b.active) {
		if m == pos {
			return true
		}
	}
	return false
}

// IsLoser is true when p is to move and has nowhere to go.
func (b *Board) IsLoser(p types.Player) bool {
	return p == b.active && len(b.LegalMoves(p)) == 0
}

// IsWinner is true when p's opponent is to move and has nowhere to go.
func (b *Board) IsWinner(p types.Player) bool {
	return p.Opponent() == b.active && len(b.LegalMoves(b.active)) == 0
}

// Finished returns true if the active player cannot move.
func (b *Board) Finished() bool {
	return len(b.LegalMoves(b.active)) == 0
}

// Winner returns the winning player, or NoPlayer while the game is running.
func (b *Board) Winner() types.Player {
	if !b.Finished() {
		return types.NoPlayer
	}
	return b.active.Opponent()
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	c.blocked = make([]bool, len(b.blocked))
	copy(c.blocked, b.blocked)
	return &c
}

// ApplyMove returns the board after the active player moves to pos.
// Unlike ForecastMove it checks that the move is legal.
func (b *Board) ApplyMove(pos types.Position) (*Board, error) {
	if !b.IsLegal(pos) {
		return nil, fmt.Errorf("illegal move %s for %s", pos, b.active)
	}
	return b.forecast(pos), nil
}

// ForecastMove returns the board after the active player moves to m.
func (b *Board) ForecastMove(m types.Position) types.GameState {
	return b.forecast(m)
}

func (b *Board) forecast(m types.Position) *Board {
	next := b.Copy()
	if next.inBounds(m) {
		next.blocked[m.Row*next.width+m.Col] = true
	}
	next.locations[next.active] = m
	next.lastMove = m
	next.moveCount++
	next.active = next.active.Opponent()
	return next
}

// Snapshot converts the board into a display snapshot.
func (b *Board) Snapshot() *types.BoardState {
	s := types.NewBoardState(b.width, b.height)
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if b.blocked[row*b.width+col] {
				s.Board[row][col] = types.CellBlocked
			}
		}
	}
	for _, p := range []types.Player{types.Player1, types.Player2} {
		if loc := b.locations[p]; !loc.IsNoMove() {
			s.Board[loc.Row][loc.Col] = int(p)
		}
	}
	s.MoveNumber = b.moveCount
	s.PlayerToMove = b.active
	s.LastMove = b.lastMove
	s.LegalMoves = b.LegalMoves(b.active)
	if b.Finished() {
		s.Phase = "finished"
		s.Outcome = fmt.Sprintf("%s wins", b.Winner())
	}
	return s
}

// String renders the board for logs: 1 and 2 are players, - is blocked.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		sb.WriteString("|")
		for col := 0; col < b.width; col++ {
			pos := types.Position{Row: row, Col: col}
			switch {
			case pos == b.locations[types.Player1]:
				sb.WriteString(" 1 ")
			case pos == b.locations[types.Player2]:
				sb.WriteString(" 2 ")
			case b.blocked[row*b.width+col]:
				sb.WriteString(" - ")
			default:
				sb.WriteString("   ")
			}
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
