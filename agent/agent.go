// Package agent chooses Isolation moves with depth-limited minimax or
// alpha-beta search, iterative deepening and a hard time budget.
//
// A search is aborted from inside the recursion as soon as the time left in
// the turn drops below the configured margin. The aborted depth is thrown
// away whole and the move from the deepest completed depth is played. If no
// depth completed, a random legal move is played instead of forfeiting.
package agent

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"isolation-local/types"
)

// Agent picks moves. It is safe for concurrent use.
type Agent struct {
	opts Options

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New validates opts and returns an Agent bound to them.
func New(opts Options) (*Agent, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	opts.Rand = nil
	return &Agent{opts: opts, rng: rng}, nil
}

// Options returns the agent's configuration.
func (a *Agent) Options() Options {
	return a.opts
}

// Decision describes how a move was chosen.
type Decision struct {
	Move  types.Position
	Score float64
	// Depth is the deepest completed search, 0 if none completed.
	Depth    int
	TimedOut bool
	// Fallback is set when the move was picked at random.
	Fallback bool
	Stats    Stats
	Elapsed  time.Duration
}

// ProvenWin reports whether the search found a forced win.
func (d Decision) ProvenWin() bool {
	return d.Depth > 0 && math.IsInf(d.Score, 1)
}

// GetMove returns the move to play from state. legalMoves are the moves the
// caller will accept; if it is empty GetMove returns types.NoMove. timeLeft
// may be nil for an unbounded search. The only error returned is a broken
// collaborator contract; running out of time is never an error.
func (a *Agent) GetMove(ctx context.Context, state types.GameState, legalMoves []types.Position, timeLeft TimeLeft) (types.Position, error) {
	d, err := a.Decide(ctx, state, legalMoves, timeLeft)
	if err != nil {
		return types.NoMove, err
	}
	return d.Move, nil
}

// Decide is GetMove with the search details.
func (a *Agent) Decide(ctx context.Context, state types.GameState, legalMoves []types.Position, timeLeft TimeLeft) (Decision, error) {
	start := time.Now()
	d := Decision{Move: types.NoMove}
	if len(legalMoves) == 0 {
		return d, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := &searcher{
		root:  state.ActivePlayer(),
		eval:  a.opts.Evaluator,
		guard: guard{ctx: ctx, timeLeft: timeLeft, margin: a.opts.TimeoutMargin},
	}

	var err error
	if a.opts.Iterative {
		err = a.deepen(s, state, &d)
	} else {
		err = a.fixed(s, state, &d)
	}
	d.Stats = s.stats
	d.Elapsed = time.Since(start)
	if err != nil {
		return Decision{Move: types.NoMove, Stats: s.stats, Elapsed: d.Elapsed}, err
	}

	if d.Move.IsNoMove() {
		d.Move = a.randomMove(legalMoves)
		d.Fallback = true
		log.Debug().
			Str("move", d.Move.String()).
			Bool("timed_out", d.TimedOut).
			Msg("no completed search, playing random move")
	}
	return d, nil
}

// deepen searches depth 1, 2, ... up to the number of cells, keeping the
// result of the last depth that completed.
func (a *Agent) deepen(s *searcher, state types.GameState, d *Decision) error {
	maxDepth := state.Width() * state.Height()
	for depth := 1; depth <= maxDepth; depth++ {
		r, err := s.search(a.opts.Method, state, depth)
		if errors.Is(err, ErrTimeout) {
			d.TimedOut = true
			log.Debug().Int("depth", depth).Msg("search timed out, keeping last completed depth")
			return nil
		}
		if err != nil {
			return err
		}

		d.Move, d.Score, d.Depth = r.Move, r.Score, depth
		log.Debug().
			Str("method", a.opts.Method.String()).
			Int("depth", depth).
			Float64("score", r.Score).
			Str("move", r.Move.String()).
			Uint64("nodes", s.stats.Nodes).
			Msg("depth complete")

		if math.IsInf(r.Score, 1) {
			return nil
		}
	}
	return nil
}

// fixed runs a single search at the configured depth.
func (a *Agent) fixed(s *searcher, state types.GameState, d *Decision) error {
	r, err := s.search(a.opts.Method, state, a.opts.SearchDepth)
	if errors.Is(err, ErrTimeout) {
		d.TimedOut = true
		log.Debug().Int("depth", a.opts.SearchDepth).Msg("fixed-depth search timed out")
		return nil
	}
	if err != nil {
		return err
	}
	d.Move, d.Score, d.Depth = r.Move, r.Score, a.opts.SearchDepth
	return nil
}

func (a *Agent) randomMove(legalMoves []types.Position) types.Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	return legalMoves[a.rng.Intn(len(legalMoves))]
}
