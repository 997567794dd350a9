package agent

import (
	"math/rand"
	"time"

	"isolation-local/types"
)

// node is a hand-built game tree. score is the value of the node for the
// root player when the search stops on it.
type node struct {
	score    float64
	children []*node
}

func leaf(score float64) *node { return &node{score: score} }

func branch(score float64, children ...*node) *node {
	return &node{score: score, children: children}
}

// treeState walks a node tree. Move i from a node at ply d is {d, i}.
type treeState struct {
	n       *node
	ply     int
	active  types.Player
	size    int
	nilNext bool
}

func newTree(root *node) *treeState {
	return &treeState{n: root, active: types.Player1, size: 3}
}

func (t *treeState) LegalMoves(types.Player) []types.Position {
	moves := make([]types.Position, len(t.n.children))
	for i := range t.n.children {
		moves[i] = types.Position{Row: t.ply, Col: i}
	}
	return moves
}

func (t *treeState) ForecastMove(m types.Position) types.GameState {
	if t.nilNext {
		return nil
	}
	return &treeState{
		n:      t.n.children[m.Col],
		ply:    t.ply + 1,
		active: t.active.Opponent(),
		size:   t.size,
	}
}

func (t *treeState) IsWinner(types.Player) bool { return false }
func (t *treeState) IsLoser(types.Player) bool  { return false }

func (t *treeState) PlayerLocation(types.Player) types.Position {
	return types.Position{Row: 100 + t.ply, Col: 100}
}

func (t *treeState) Opponent(p types.Player) types.Player { return p.Opponent() }
func (t *treeState) ActivePlayer() types.Player           { return t.active }
func (t *treeState) BlankSpaces() []types.Position        { return nil }
func (t *treeState) Width() int                           { return t.size }
func (t *treeState) Height() int                          { return t.size }
func (t *treeState) MoveCount() int                       { return t.ply }

// nodeScore evaluates a treeState by its node's score.
var nodeScore = EvaluatorFunc(func(state types.GameState, _ types.Player) float64 {
	return state.(*treeState).n.score
})

// randomTree builds a full tree with small integer scores so ties are common.
func randomTree(rng *rand.Rand, depth, branching int) *node {
	n := leaf(float64(rng.Intn(5)))
	if depth == 0 {
		return n
	}
	for i := 0; i < branching; i++ {
		n.children = append(n.children, randomTree(rng, depth-1, branching))
	}
	return n
}

// countdown returns a TimeLeft with plenty of time for the first calls
// node entries and none afterwards.
func countdown(calls int) TimeLeft {
	n := 0
	return func() time.Duration {
		n++
		if n > calls {
			return 0
		}
		return time.Hour
	}
}

func newSearcher(eval Evaluator) *searcher {
	return &searcher{root: types.Player1, eval: eval}
}
