package agent

import (
	"errors"
	"math"
	"testing"

	"isolation-local/isolation"
	"isolation-local/types"
)

func TestWeightedMobilityFormula(t *testing.T) {
	b, _ := isolation.NewBoard(7, 7)
	b, _ = b.ApplyMove(at(3, 3)) // 8 moves
	b, _ = b.ApplyMove(at(0, 0)) // 2 moves

	eval := NewWeightedMobility()
	if got, want := eval.Score(b, types.Player1), 8.0*8.0-1.5*2.0*2.0; got != want {
		t.Fatalf("player 1: got %v, want %v", got, want)
	}
	if got, want := eval.Score(b, types.Player2), 2.0*2.0-1.5*8.0*8.0; got != want {
		t.Fatalf("player 2: got %v, want %v", got, want)
	}

	custom := WeightedMobility{Weight: 1}
	if got := custom.Score(b, types.Player1); got != 60 {
		t.Fatalf("weight 1: got %v, want 60", got)
	}
}

// walk visits every position reachable from b.
func walk(b *isolation.Board, visit func(*isolation.Board)) {
	visit(b)
	for _, m := range b.LegalMoves(b.ActivePlayer()) {
		next, _ := b.ApplyMove(m)
		walk(next, visit)
	}
}

func TestTerminalSentinels(t *testing.T) {
	start, _ := isolation.NewBoard(4, 3)
	evals := map[string]Evaluator{
		"weighted mobility": NewWeightedMobility(),
		"center value":      NewCenterValue(4, 3),
	}

	terminals := 0
	walk(start, func(b *isolation.Board) {
		active, other := b.ActivePlayer(), b.InactivePlayer()
		if b.Finished() {
			terminals++
		}
		for name, eval := range evals {
			a, o := eval.Score(b, active), eval.Score(b, other)
			if b.Finished() {
				if !math.IsInf(a, -1) || !math.IsInf(o, 1) {
					t.Fatalf("%s: terminal scores %v / %v on\n%s", name, a, o, b)
				}
				continue
			}
			if math.IsInf(a, 0) || math.IsInf(o, 0) || math.IsNaN(a) || math.IsNaN(o) {
				t.Fatalf("%s: non-terminal scores %v / %v on\n%s", name, a, o, b)
			}
		}
	})
	if terminals == 0 {
		t.Fatal("expected to reach terminal positions")
	}
}

func TestValueTable(t *testing.T) {
	table := NewValueTable(7, 7, 10, 0.9)
	tests := []struct {
		pos  types.Position
		want float64
	}{
		{at(3, 3), 10},
		{at(1, 2), 9},
		{at(5, 4), 9},
		{at(3, 1), 8.1},
		{at(-1, 0), 0},
		{at(7, 7), 0},
	}
	for _, tt := range tests {
		if got := table.At(tt.pos); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	// On 3x3 the centre has no knight neighbours, so the ring stays at 0.
	small := NewValueTable(3, 3, 10, 0.9)
	if small.At(at(1, 1)) != 10 || small.At(at(0, 0)) != 0 {
		t.Fatalf("unexpected 3x3 table: centre %v corner %v", small.At(at(1, 1)), small.At(at(0, 0)))
	}
}

func TestCenterValueScore(t *testing.T) {
	b, _ := isolation.NewBoard(7, 7)
	b, _ = b.ApplyMove(at(3, 3))
	b, _ = b.ApplyMove(at(0, 0))

	eval := NewCenterValue(7, 7)
	table := eval.Table()
	side := func(p types.Player) float64 {
		moves := b.LegalMoves(p)
		sum := 0.0
		for _, m := range moves {
			sum += table.At(m)
		}
		return float64(len(moves)) + table.At(b.PlayerLocation(p)) + sum/float64(len(moves))
	}
	want := side(types.Player1) - side(types.Player2)
	if got := eval.Score(b, types.Player1); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
	if eval.Score(b, types.Player1) <= eval.Score(b, types.Player2) {
		t.Fatal("the centre player should score higher")
	}
}

func TestNewEvaluator(t *testing.T) {
	e, err := NewEvaluator(EvalWeightedMobility, 7, 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if w, ok := e.(WeightedMobility); !ok || w.Weight != DefaultMobilityWeight {
		t.Fatalf("expected default weighted mobility, got %#v", e)
	}
	if e, _ = NewEvaluator(EvalWeightedMobility, 7, 7, 2); e.(WeightedMobility).Weight != 2 {
		t.Fatal("weight not applied")
	}
	if e, _ = NewEvaluator(EvalCenterValue, 5, 5, 0); e.(*CenterValue).Table().At(at(2, 2)) != 10 {
		t.Fatal("center value table not built for 5x5")
	}
	if _, err := NewEvaluator("open_move_score", 7, 7, 0); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}
