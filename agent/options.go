package agent

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Method selects the search algorithm.
type Method int

const (
	Minimax Method = iota
	AlphaBeta
)

func (m Method) String() string {
	switch m {
	case Minimax:
		return "minimax"
	case AlphaBeta:
		return "alphabeta"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts "minimax" or "alphabeta" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimax":
		return Minimax, nil
	case "alphabeta", "alpha-beta":
		return AlphaBeta, nil
	}
	return 0, fmt.Errorf("%w: unknown search method %q", ErrInvalidOptions, s)
}

var ErrInvalidOptions = errors.New("invalid agent options")

// Options configure an Agent. They are copied into the Agent by New and
// never change afterwards.
type Options struct {
	// SearchDepth is the fixed depth used when Iterative is false.
	SearchDepth int
	// Iterative enables iterative deepening up to width*height plies.
	Iterative bool
	Method    Method
	Evaluator Evaluator
	// TimeoutMargin is the slack kept below the deadline. The search aborts
	// as soon as the time left drops under it.
	TimeoutMargin time.Duration
	// Rand drives the fallback move choice. Nil seeds from the clock.
	Rand *rand.Rand
}

// DefaultOptions mirrors the classic agent: depth 3, iterative deepening,
// plain minimax, weighted mobility, 10ms margin.
func DefaultOptions() Options {
	return Options{
		SearchDepth:   3,
		Iterative:     true,
		Method:        Minimax,
		Evaluator:     NewWeightedMobility(),
		TimeoutMargin: 10 * time.Millisecond,
	}
}

// Validate checks the options for obvious mistakes.
func (o Options) Validate() error {
	if !o.Iterative && o.SearchDepth < 1 {
		return fmt.Errorf("%w: search depth must be at least 1, got %d", ErrInvalidOptions, o.SearchDepth)
	}
	if o.Method != Minimax && o.Method != AlphaBeta {
		return fmt.Errorf("%w: unknown method %v", ErrInvalidOptions, o.Method)
	}
	if o.Evaluator == nil {
		return fmt.Errorf("%w: evaluator is required", ErrInvalidOptions)
	}
	if o.TimeoutMargin < 0 {
		return fmt.Errorf("%w: negative timeout margin %v", ErrInvalidOptions, o.TimeoutMargin)
	}
	return nil
}
