package agent

import (
	"errors"
	"fmt"
	"math"

	"isolation-local/types"
)

// ErrContract reports a collaborator or evaluator that broke its contract.
var ErrContract = errors.New("game state contract violated")

// Result is the outcome of searching one node: the best score reachable and
// the move that leads to it from that node.
type Result struct {
	Score float64
	Move  types.Position
}

// Stats counts the work done by a search.
type Stats struct {
	Nodes   uint64 // nodes entered (after the deadline check)
	Leaves  uint64 // evaluator calls
	Cutoffs uint64 // alpha-beta prunes
}

// searcher holds everything shared by the frames of one search.
type searcher struct {
	root  types.Player
	eval  Evaluator
	guard guard
	stats Stats
}

// search runs method to depth from state.
func (s *searcher) search(method Method, state types.GameState, depth int) (Result, error) {
	switch method {
	case Minimax:
		return s.minimax(state, depth, true)
	case AlphaBeta:
		return s.alphabeta(state, depth, math.Inf(-1), math.Inf(1), true)
	}
	return Result{}, fmt.Errorf("%w: unknown method %v", ErrInvalidOptions, method)
}

// enter is the deadline check done first thing at every node.
func (s *searcher) enter() error {
	if err := s.guard.check(); err != nil {
		return err
	}
	s.stats.Nodes++
	return nil
}

// evaluate scores state for the root player.
func (s *searcher) evaluate(state types.GameState) (float64, error) {
	s.stats.Leaves++
	score := s.eval.Score(state, s.root)
	if math.IsNaN(score) {
		return 0, fmt.Errorf("%w: evaluator returned NaN", ErrContract)
	}
	return score, nil
}

// mover returns the player whose moves are expanded at this layer.
func (s *searcher) mover(state types.GameState, maximizing bool) types.Player {
	if maximizing {
		return s.root
	}
	return state.Opponent(s.root)
}

// leaf handles the two base cases shared by both searches.
func (s *searcher) leaf(state types.GameState, depth int, moves []types.Position) (Result, bool, error) {
	if depth == 0 {
		score, err := s.evaluate(state)
		return Result{Score: score, Move: state.PlayerLocation(s.root)}, true, err
	}
	if len(moves) == 0 {
		score, err := s.evaluate(state)
		return Result{Score: score, Move: types.NoMove}, true, err
	}
	return Result{}, false, nil
}

func forecast(state types.GameState, m types.Position) (types.GameState, error) {
	next := state.ForecastMove(m)
	if next == nil {
		return nil, fmt.Errorf("%w: forecast of %v returned nil", ErrContract, m)
	}
	return next, nil
}

// worst is the starting score of a layer.
func worst(maximizing bool) Result {
	if maximizing {
		return Result{Score: math.Inf(-1), Move: types.NoMove}
	}
	return Result{Score: math.Inf(1), Move: types.NoMove}
}

// improves applies the tie rule: later moves win ties in both layers.
func improves(score float64, best Result, maximizing bool) bool {
	if maximizing {
		return score >= best.Score
	}
	return score <= best.Score
}
