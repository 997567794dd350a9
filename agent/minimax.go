package agent

import "isolation-local/types"

// minimax returns the best score reachable from state within depth plies,
// scored for the root player, along with this node's best move.
func (s *searcher) minimax(state types.GameState, depth int, maximizing bool) (Result, error) {
	if err := s.enter(); err != nil {
		return Result{}, err
	}

	// depth 0 is checked before move generation
	var moves []types.Position
	if depth > 0 {
		moves = state.LegalMoves(s.mover(state, maximizing))
	}
	if r, ok, err := s.leaf(state, depth, moves); ok || err != nil {
		return r, err
	}

	best := worst(maximizing)
	for _, move := range moves {
		child, err := forecast(state, move)
		if err != nil {
			return Result{}, err
		}
		r, err := s.minimax(child, depth-1, !maximizing)
		if err != nil {
			return Result{}, err
		}
		if improves(r.Score, best, maximizing) {
			best = Result{Score: r.Score, Move: move}
		}
	}
	return best, nil
}
