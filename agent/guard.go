package agent

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout aborts a search. It is returned unchanged through every frame
// and only handled by the move selector.
var ErrTimeout = errors.New("search timed out")

// TimeLeft reports the time remaining in the current turn.
type TimeLeft func() time.Duration

// Until returns a TimeLeft that counts down to deadline.
func Until(deadline time.Time) TimeLeft {
	return func() time.Duration {
		return time.Until(deadline)
	}
}

// Budget returns a TimeLeft for a turn of length d starting now.
func Budget(d time.Duration) TimeLeft {
	return Until(time.Now().Add(d))
}

// guard is the deadline shared by every node of one GetMove call.
type guard struct {
	ctx      context.Context
	timeLeft TimeLeft
	margin   time.Duration
}

// check is called on entry to every search node.
func (g *guard) check() error {
	if g.ctx != nil {
		if err := g.ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
	}
	if g.timeLeft != nil && g.timeLeft() < g.margin {
		return ErrTimeout
	}
	return nil
}
