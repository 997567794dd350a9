// Package engine defines the interface for game engines.
package engine

import (
	"time"

	"isolation-local/agent"
	"isolation-local/types"
)

// GameEngine defines the interface for playing Isolation against an agent.
type GameEngine interface {
	// Connect initializes the game and starts the agent if it moves first.
	Connect() error

	// GetBoardState returns the current board state.
	GetBoardState() *types.BoardState

	// PlayMove plays the human's move.
	// Returns an error if the move is illegal or it is not the human's turn.
	PlayMove(pos types.Position) error

	// IsMyTurn returns true if it's the human player's turn.
	IsMyTurn() bool

	// GetPlayer returns the human's side.
	GetPlayer() types.Player

	// OnMove registers a callback for when a move is played (by either player).
	// boardState is passed directly to avoid lock contention.
	OnMove(func(pos types.Position, player types.Player, boardState *types.BoardState))

	// Undo takes back the human's last move and the agent's reply, if any.
	Undo() error

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// LastDecision returns how the agent chose its most recent move.
	LastDecision() (agent.Decision, bool)

	// Close stops any running search and closes the game record.
	Close()
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Width       int
	Height      int
	HumanPlayer types.Player  // Player1 moves first
	TurnTime    time.Duration // agent's budget per move
	Agent       agent.Options
	RecordDir   string // where game records go, empty disables recording
	LoadPath    string // record to resume from
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Width:       7,
		Height:      7,
		HumanPlayer: types.Player1,
		TurnTime:    time.Second,
		Agent:       agent.DefaultOptions(),
	}
}
