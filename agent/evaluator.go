package agent

import (
	"fmt"
	"math"

	"isolation-local/types"
)

// Evaluator scores a position from player's point of view. Implementations
// must return -Inf exactly when player has lost, +Inf exactly when player
// has won, and a finite value otherwise.
type Evaluator interface {
	Score(state types.GameState, player types.Player) float64
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(state types.GameState, player types.Player) float64

func (f EvaluatorFunc) Score(state types.GameState, player types.Player) float64 {
	return f(state, player)
}

// Evaluator names accepted by NewEvaluator.
const (
	EvalWeightedMobility = "weighted_mobility"
	EvalCenterValue      = "center_value"
)

// NewEvaluator builds the named evaluator for a width x height board.
// weight only applies to weighted mobility; 0 means DefaultMobilityWeight.
func NewEvaluator(name string, width, height int, weight float64) (Evaluator, error) {
	switch name {
	case EvalWeightedMobility, "":
		if weight == 0 {
			weight = DefaultMobilityWeight
		}
		return WeightedMobility{Weight: weight}, nil
	case EvalCenterValue:
		return NewCenterValue(width, height), nil
	}
	return nil, fmt.Errorf("%w: unknown evaluator %q", ErrInvalidOptions, name)
}

// terminalScore returns the sentinel for a finished game, if it is one.
func terminalScore(state types.GameState, player types.Player) (float64, bool) {
	if state.IsLoser(player) {
		return math.Inf(-1), true
	}
	if state.IsWinner(player) {
		return math.Inf(1), true
	}
	return 0, false
}

const DefaultMobilityWeight = 1.5

// WeightedMobility scores own mobility squared minus Weight times the
// opponent's mobility squared.
type WeightedMobility struct {
	Weight float64
}

// NewWeightedMobility returns the reference heuristic.
func NewWeightedMobility() WeightedMobility {
	return WeightedMobility{Weight: DefaultMobilityWeight}
}

func (w WeightedMobility) Score(state types.GameState, player types.Player) float64 {
	if score, ok := terminalScore(state, player); ok {
		return score
	}
	own := float64(len(state.LegalMoves(player)))
	opp := float64(len(state.LegalMoves(state.Opponent(player))))
	return own*own - w.Weight*opp*opp
}

// ValueTable holds a fixed value per cell: the centre is worth maxValue and
// every other cell is worth discount times its best knight neighbour.
type ValueTable struct {
	width  int
	height int
	values []float64
}

// NewValueTable computes the table by relaxing until nothing changes.
func NewValueTable(width, height int, maxValue, discount float64) *ValueTable {
	t := &ValueTable{
		width:  width,
		height: height,
		values: make([]float64, width*height),
	}
	center := types.Position{Row: height / 2, Col: width / 2}

	for changed := true; changed; {
		changed = false
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				pos := types.Position{Row: row, Col: col}
				want := maxValue
				if pos != center {
					want = t.bestNeighbour(pos) * discount
				}
				if t.values[row*width+col] != want {
					t.values[row*width+col] = want
					changed = true
				}
			}
		}
	}
	return t
}

var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

func (t *ValueTable) bestNeighbour(pos types.Position) float64 {
	best := 0.0
	for _, d := range knightOffsets {
		n := types.Position{Row: pos.Row + d[0], Col: pos.Col + d[1]}
		if v := t.At(n); v > best {
			best = v
		}
	}
	return best
}

// At returns the value of pos, or 0 off the board.
func (t *ValueTable) At(pos types.Position) float64 {
	if pos.Row < 0 || pos.Row >= t.height || pos.Col < 0 || pos.Col >= t.width {
		return 0
	}
	return t.values[pos.Row*t.width+pos.Col]
}

// CenterValue favours positions close (in knight moves) to the centre.
type CenterValue struct {
	table *ValueTable
}

// NewCenterValue builds the value table once for a width x height board.
func NewCenterValue(width, height int) *CenterValue {
	return &CenterValue{table: NewValueTable(width, height, 10, 0.9)}
}

// Table exposes the precomputed values.
func (c *CenterValue) Table() *ValueTable {
	return c.table
}

func (c *CenterValue) Score(state types.GameState, player types.Player) float64 {
	if score, ok := terminalScore(state, player); ok {
		return score
	}
	return c.side(state, player) - c.side(state, state.Opponent(player))
}

func (c *CenterValue) side(state types.GameState, player types.Player) float64 {
	moves := state.LegalMoves(player)
	score := float64(len(moves)) + c.table.At(state.PlayerLocation(player))
	if len(moves) > 0 {
		var sum float64
		for _, m := range moves {
			sum += c.table.At(m)
		}
		score += sum / float64(len(moves))
	}
	return score
}
