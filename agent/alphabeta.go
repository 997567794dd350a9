package agent

import (
	"math"

	"isolation-local/types"
)

// alphabeta is minimax with an (alpha, beta) window. It returns the same
// move and score as minimax at the same depth.
//
// Prunes are strict: a branch is cut only once it is strictly outside the
// window. Cutting at equality would hand the parent a bound that ties its
// best score, and the >= tie rule would then pick the wrong sibling.
func (s *searcher) alphabeta(state types.GameState, depth int, alpha, beta float64, maximizing bool) (Result, error) {
	if err := s.enter(); err != nil {
		return Result{}, err
	}

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
		r, err := s.alphabeta(child, depth-1, alpha, beta, !maximizing)
		if err != nil {
			return Result{}, err
		}
		if improves(r.Score, best, maximizing) {
			best = Result{Score: r.Score, Move: move}
		}

		if maximizing {
			if best.Score > beta {
				s.stats.Cutoffs++
				return best, nil
			}
			alpha = math.Max(alpha, best.Score)
		} else {
			if best.Score < alpha {
				s.stats.Cutoffs++
				return best, nil
			}
			beta = math.Min(beta, best.Score)
		}
	}
	return best, nil
}
