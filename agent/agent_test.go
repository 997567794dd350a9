package agent

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"isolation-local/isolation"
	"isolation-local/types"
)

func newTestAgent(t *testing.T, method Method, iterative bool, eval Evaluator) *Agent {
	t.Helper()
	opts := DefaultOptions()
	opts.Method = method
	opts.Iterative = iterative
	opts.Evaluator = eval
	opts.Rand = rand.New(rand.NewSource(1))
	a, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

var methods = []Method{Minimax, AlphaBeta}

// deepeningTree prefers move 1 at depth 1 and move 0 at depth 2.
func deepeningTree() *treeState {
	return newTree(branch(0,
		branch(1, leaf(10), leaf(10)),
		branch(5, leaf(0), leaf(0)),
	))
}

func TestGetMoveEmptyLegalMoves(t *testing.T) {
	a := newTestAgent(t, AlphaBeta, true, nodeScore)
	move, err := a.GetMove(context.Background(), deepeningTree(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !move.IsNoMove() {
		t.Fatalf("expected no move, got %v", move)
	}
}

func TestTimeoutKeepsLastCompletedDepth(t *testing.T) {
	for _, m := range methods {
		t.Run(m.String(), func(t *testing.T) {
			a := newTestAgent(t, m, true, nodeScore)
			state := deepeningTree()

			// Depth 1 enters 3 nodes. Depth 2 enters the root, the first
			// subtree and its two leaves, then runs out of time at the second
			// subtree, by which point it prefers move 0.
			d, err := a.Decide(context.Background(), state, state.LegalMoves(types.Player1), countdown(7))
			if err != nil {
				t.Fatal(err)
			}
			if d.Move != at(0, 1) {
				t.Fatalf("expected depth-1 move (0, 1), got %v", d.Move)
			}
			if d.Depth != 1 || !d.TimedOut || d.Fallback {
				t.Fatalf("unexpected decision %+v", d)
			}
			if d.Score != 5 {
				t.Fatalf("expected depth-1 score 5, got %v", d.Score)
			}
		})
	}
}

func TestIterativeDeepeningRunsToFullDepth(t *testing.T) {
	a := newTestAgent(t, AlphaBeta, true, nodeScore)
	state := deepeningTree()
	d, err := a.Decide(context.Background(), state, state.LegalMoves(types.Player1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Move != at(0, 0) {
		t.Fatalf("expected deep move (0, 0), got %v", d.Move)
	}
	if d.Depth != state.Width()*state.Height() || d.TimedOut {
		t.Fatalf("expected all %d depths to complete, got %+v", state.Width()*state.Height(), d)
	}
}

func TestNoCompletedDepthFallsBackToLegalMove(t *testing.T) {
	b, _ := isolation.NewBoard(7, 7)
	legal := []types.Position{at(0, 1), at(3, 3), at(6, 5)}
	seen := map[types.Position]bool{}

	for _, m := range methods {
		for _, iterative := range []bool{true, false} {
			a := newTestAgent(t, m, iterative, NewWeightedMobility())
			for i := 0; i < 50; i++ {
				d, err := a.Decide(context.Background(), b, legal, func() time.Duration { return 0 })
				if err != nil {
					t.Fatal(err)
				}
				if !d.Fallback || !d.TimedOut || d.Depth != 0 {
					t.Fatalf("expected timed out fallback, got %+v", d)
				}
				found := false
				for _, l := range legal {
					found = found || l == d.Move
				}
				if !found {
					t.Fatalf("fallback move %v is not in %v", d.Move, legal)
				}
				seen[d.Move] = true
			}
		}
	}
	if len(seen) != len(legal) {
		t.Fatalf("fallback should eventually pick every legal move, saw %v", seen)
	}
}

func TestForcedWinStopsDeepening(t *testing.T) {
	// Player 2 to move on a 3x2 board; taking (1,2) leaves player 1 stuck.
	b, _ := isolation.NewBoard(3, 2)
	b, _ = b.ApplyMove(at(0, 0))

	for _, m := range methods {
		t.Run(m.String(), func(t *testing.T) {
			a := newTestAgent(t, m, true, NewWeightedMobility())
			d, err := a.Decide(context.Background(), b, b.LegalMoves(types.Player2), nil)
			if err != nil {
				t.Fatal(err)
			}
			if d.Move != at(1, 2) {
				t.Fatalf("expected winning move (1, 2), got %v", d.Move)
			}
			if !d.ProvenWin() || d.Depth != 1 {
				t.Fatalf("expected proven win at depth 1, got %+v", d)
			}
			// root plus its five children: nothing deeper was searched
			if d.Stats.Nodes != 6 {
				t.Fatalf("expected 6 nodes, got %d", d.Stats.Nodes)
			}
		})
	}
}

func TestFixedDepth(t *testing.T) {
	state := deepeningTree()
	legal := state.LegalMoves(types.Player1)

	opts := DefaultOptions()
	opts.Iterative = false
	opts.SearchDepth = 2
	opts.Evaluator = nodeScore
	opts.Rand = rand.New(rand.NewSource(3))
	a, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}

	d, err := a.Decide(context.Background(), state, legal, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Move != at(0, 0) || d.Depth != 2 || d.Score != 10 {
		t.Fatalf("unexpected fixed depth decision %+v", d)
	}

	// Timing out a fixed depth search leaves nothing but the fallback.
	d, err = a.Decide(context.Background(), state, legal, countdown(6))
	if err != nil {
		t.Fatal(err)
	}
	if !d.TimedOut || !d.Fallback || d.Depth != 0 {
		t.Fatalf("expected fallback after timeout, got %+v", d)
	}
}

func TestCancelledContextTimesOut(t *testing.T) {
	a := newTestAgent(t, AlphaBeta, true, nodeScore)
	state := deepeningTree()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	move, err := a.GetMove(ctx, state, state.LegalMoves(types.Player1), nil)
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if move != at(0, 0) && move != at(0, 1) {
		t.Fatalf("expected a legal fallback move, got %v", move)
	}
}

func TestContractViolationsPropagate(t *testing.T) {
	broken := deepeningTree()
	broken.nilNext = true
	a := newTestAgent(t, Minimax, true, nodeScore)
	_, err := a.GetMove(context.Background(), broken, broken.LegalMoves(types.Player1), nil)
	if !errors.Is(err, ErrContract) {
		t.Fatalf("expected ErrContract for nil forecast, got %v", err)
	}

	nan := EvaluatorFunc(func(types.GameState, types.Player) float64 { return math.NaN() })
	a = newTestAgent(t, AlphaBeta, false, nan)
	state := deepeningTree()
	move, err := a.GetMove(context.Background(), state, state.LegalMoves(types.Player1), nil)
	if !errors.Is(err, ErrContract) {
		t.Fatalf("expected ErrContract for NaN score, got %v", err)
	}
	if !move.IsNoMove() {
		t.Fatalf("expected no move with an error, got %v", move)
	}
}

func TestAgentPlaysFullGame(t *testing.T) {
	b, _ := isolation.NewBoard(5, 5)
	players := map[types.Player]*Agent{
		types.Player1: newTestAgent(t, AlphaBeta, true, NewWeightedMobility()),
		types.Player2: newTestAgent(t, Minimax, true, NewCenterValue(5, 5)),
	}

	for !b.Finished() {
		if b.MoveCount() > 25 {
			t.Fatal("game did not end")
		}
		legal := b.LegalMoves(b.ActivePlayer())
		move, err := players[b.ActivePlayer()].GetMove(context.Background(), b, legal, Budget(20*time.Millisecond))
		if err != nil {
			t.Fatal(err)
		}
		if b, err = b.ApplyMove(move); err != nil {
			t.Fatalf("agent played an illegal move: %v", err)
		}
	}
	if b.Winner() == types.NoPlayer {
		t.Fatal("finished game must have a winner")
	}
}
