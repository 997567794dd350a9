// Package types contains shared data structures for isolation-local.
package types

import (
	"encoding/json"
	"fmt"
)

// Player identifies one of the two sides. 1 moves first.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Opponent returns the other player (1->2, 2->1).
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "nobody"
	}
}

// Position is a cell on the board.
type Position struct {
	Row int
	Col int
}

// NoMove is returned when there is no move to make.
var NoMove = Position{Row: -1, Col: -1}

// IsNoMove returns true for the NoMove sentinel.
func (p Position) IsNoMove() bool {
	return p == NoMove
}

func (p Position) String() string {
	if p.IsNoMove() {
		return "(-1, -1)"
	}
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// UnmarshalJSON allows Position to be unmarshaled from a JSON array [row, col].
func (p *Position) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("position needs 2 coordinates, got %d", len(v))
	}
	p.Row = v[0]
	p.Col = v[1]
	return nil
}

// MarshalJSON writes Position as [row, col].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// GameState is an immutable game position. ForecastMove never changes the
// receiver; it returns the position after the active player makes the move.
type GameState interface {
	// LegalMoves returns the moves available to p, always in the same order
	// for the same position.
	LegalMoves(p Player) []Position
	ForecastMove(m Position) GameState
	IsWinner(p Player) bool
	IsLoser(p Player) bool
	// PlayerLocation returns NoMove if p has not been placed yet.
	PlayerLocation(p Player) Position
	Opponent(p Player) Player
	ActivePlayer() Player

	BlankSpaces() []Position
	Width() int
	Height() int
	MoveCount() int
}
