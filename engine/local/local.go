package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"isolation-local/agent"
	"isolation-local/engine"
	"isolation-local/isolation"
	"isolation-local/sgf"
	"isolation-local/types"
)

var _ engine.GameEngine = (*Engine)(nil)

// Engine implements the GameEngine interface with the search agent running
// in-process. Each agent turn runs on its own goroutine.
type Engine struct {
	config engine.GameConfig
	agent  *agent.Agent
	human  types.Player

	board       *isolation.Board
	history     []*isolation.Board // history[len-1] == board
	gameOver    bool
	decision    agent.Decision
	hasDecision bool
	record      *sgf.GameRecord
	gen         int // bumped by Undo so a stale agent move is dropped

	moveCallback func(pos types.Position, player types.Player, boardState *types.BoardState)
	endCallback  func(outcome string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// New creates a local engine with the given configuration.
func New(cfg engine.GameConfig) (*Engine, error) {
	if cfg.HumanPlayer != types.Player1 && cfg.HumanPlayer != types.Player2 {
		return nil, fmt.Errorf("human player must be %s or %s", types.Player1, types.Player2)
	}
	a, err := agent.New(cfg.Agent)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		config: cfg,
		agent:  a,
		human:  cfg.HumanPlayer,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Connect sets up the board, resuming from the configured record if any,
// and starts the agent if it is to move.
func (e *Engine) Connect() error {
	var (
		board *isolation.Board
		moves []sgf.Move
		err   error
	)
	if e.config.LoadPath != "" {
		board, moves, err = sgf.Replay(e.config.LoadPath)
		if err != nil {
			return fmt.Errorf("failed to load game: %w", err)
		}
	} else {
		board, err = isolation.NewBoard(e.config.Width, e.config.Height)
		if err != nil {
			return err
		}
	}

	var rec *sgf.GameRecord
	if e.config.RecordDir != "" {
		rec, err = sgf.NewGameRecord(e.config.RecordDir, board.Width(), board.Height(), e.human, e.agentName())
		if err != nil {
			return err
		}
		for _, m := range moves {
			if err := rec.AddMove(m.Pos, m.Player, m.Comment); err != nil {
				rec.Close()
				return err
			}
		}
	}

	e.mu.Lock()
	e.board = board
	e.history = []*isolation.Board{board}
	e.record = rec
	outcome, ended := e.checkEnd()
	gen, agentTurn := e.prepareAgentTurn()
	e.mu.Unlock()

	log.Info().
		Int("width", board.Width()).
		Int("height", board.Height()).
		Str("human", e.human.String()).
		Int("moves", board.MoveCount()).
		Msg("game started")

	if ended && e.endCallback != nil {
		e.endCallback(outcome)
	}
	if agentTurn {
		go e.agentMove(gen)
	}
	return nil
}

func (e *Engine) agentName() string {
	return fmt.Sprintf("Agent %s", e.agent.Options().Method)
}

// GetBoardState returns the current board state.
func (e *Engine) GetBoardState() *types.BoardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.board == nil {
		return types.NewBoardState(e.config.Width, e.config.Height)
	}
	return e.board.Snapshot()
}

// PlayMove plays the human's move at pos.
func (e *Engine) PlayMove(pos types.Position) error {
	e.mu.Lock()

	if e.board == nil {
		e.mu.Unlock()
		return fmt.Errorf("game not started")
	}
	if e.gameOver {
		e.mu.Unlock()
		return fmt.Errorf("game is over")
	}
	if e.board.ActivePlayer() != e.human {
		e.mu.Unlock()
		return fmt.Errorf("not your turn")
	}

	next, err := e.board.ApplyMove(pos)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("illegal move: %w", err)
	}
	log.Debug().Str("move", pos.String()).Msg("human move")

	e.push(next, pos, e.human, "")
	boardState := next.Snapshot()
	outcome, ended := e.checkEnd()
	gen, agentTurn := e.prepareAgentTurn()
	e.mu.Unlock()

	// Notify callbacks outside the lock
	if e.moveCallback != nil {
		e.moveCallback(pos, e.human, boardState)
	}
	if ended && e.endCallback != nil {
		e.endCallback(outcome)
	}
	if agentTurn {
		go e.agentMove(gen)
	}
	return nil
}

// prepareAgentTurn reports whether the agent should move now and registers
// the search with the wait group. Must be called while holding the lock.
func (e *Engine) prepareAgentTurn() (int, bool) {
	if e.gameOver || e.board.ActivePlayer() == e.human || e.ctx.Err() != nil {
		return 0, false
	}
	e.wg.Add(1)
	return e.gen, true
}

// agentMove searches for and plays the agent's move.
func (e *Engine) agentMove(gen int) {
	defer e.wg.Done()

	e.mu.Lock()
	if e.gameOver || gen != e.gen {
		e.mu.Unlock()
		return
	}
	board := e.board
	e.mu.Unlock()

	player := board.ActivePlayer()
	log.Debug().Str("player", player.String()).Dur("budget", e.config.TurnTime).Msg("agent thinking")

	var timeLeft agent.TimeLeft
	if e.config.TurnTime > 0 {
		timeLeft = agent.Budget(e.config.TurnTime)
	}
	d, err := e.agent.Decide(e.ctx, board, board.LegalMoves(player), timeLeft)
	if err != nil {
		log.Error().Err(err).Msg("agent search failed")
		return
	}

	e.mu.Lock()
	if e.gameOver || gen != e.gen || e.ctx.Err() != nil {
		e.mu.Unlock()
		log.Debug().Str("move", d.Move.String()).Msg("discarding stale agent move")
		return
	}
	next, err := e.board.ApplyMove(d.Move)
	if err != nil {
		e.mu.Unlock()
		log.Error().Err(err).Msg("agent chose an illegal move")
		return
	}

	log.Info().
		Str("move", d.Move.String()).
		Int("depth", d.Depth).
		Float64("score", d.Score).
		Bool("timed_out", d.TimedOut).
		Bool("fallback", d.Fallback).
		Uint64("nodes", d.Stats.Nodes).
		Dur("elapsed", d.Elapsed).
		Msg("agent move")

	e.decision, e.hasDecision = d, true
	e.push(next, d.Move, player, decisionComment(d))
	boardState := next.Snapshot()
	outcome, ended := e.checkEnd()
	e.mu.Unlock()

	// Notify callbacks outside the lock
	if e.moveCallback != nil {
		e.moveCallback(d.Move, player, boardState)
	}
	if ended && e.endCallback != nil {
		e.endCallback(outcome)
	}
}

func decisionComment(d agent.Decision) string {
	if d.Fallback {
		return "random fallback"
	}
	c := fmt.Sprintf("depth %d score %g nodes %d", d.Depth, d.Score, d.Stats.Nodes)
	if d.TimedOut {
		c += " timed out"
	}
	return c
}

// push makes next the current board and records the move.
// Must be called while holding the lock.
func (e *Engine) push(next *isolation.Board, pos types.Position, player types.Player, comment string) {
	e.board = next
	e.history = append(e.history, next)
	if e.record != nil {
		if err := e.record.AddMove(pos, player, comment); err != nil {
			log.Warn().Err(err).Msg("failed to record move")
		}
	}
}

// checkEnd marks the game over if the player to move is stuck.
// Must be called while holding the lock.
func (e *Engine) checkEnd() (string, bool) {
	if e.gameOver || !e.board.Finished() {
		return "", false
	}
	e.gameOver = true
	outcome := fmt.Sprintf("%s wins", e.board.Winner())
	if e.record != nil {
		if err := e.record.SetResult(outcome); err != nil {
			log.Warn().Err(err).Msg("failed to record result")
		}
	}
	log.Info().Str("outcome", outcome).Int("moves", e.board.MoveCount()).Msg("game over")
	return outcome, true
}

// Undo takes back the human's last move together with the agent's reply.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.board == nil {
		return fmt.Errorf("game not started")
	}
	if !e.gameOver && e.board.ActivePlayer() != e.human {
		return fmt.Errorf("cannot undo while the agent is thinking")
	}

	// Latest earlier position with the human to move
	target := -1
	for i := len(e.history) - 2; i >= 0; i-- {
		if e.history[i].ActivePlayer() == e.human {
			target = i
			break
		}
	}
	if target < 0 {
		return fmt.Errorf("no move to undo")
	}

	n := len(e.history) - 1 - target
	e.history = e.history[:target+1]
	e.board = e.history[target]
	e.gameOver = false
	e.gen++
	if e.record != nil {
		if err := e.record.UndoMoves(n); err != nil {
			log.Warn().Err(err).Msg("failed to undo recorded moves")
		}
	}
	log.Debug().Int("plies", n).Msg("undo")
	return nil
}

// IsMyTurn returns true if it's the human player's turn.
func (e *Engine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board != nil && !e.gameOver && e.board.ActivePlayer() == e.human
}

// GetPlayer returns the human's side.
func (e *Engine) GetPlayer() types.Player {
	return e.human
}

// OnMove registers a callback for when a move is played.
func (e *Engine) OnMove(callback func(pos types.Position, player types.Player, boardState *types.BoardState)) {
	e.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *Engine) OnGameEnd(callback func(outcome string)) {
	e.endCallback = callback
}

// LastDecision returns how the agent chose its most recent move.
func (e *Engine) LastDecision() (agent.Decision, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decision, e.hasDecision
}

// RecordPath returns the path of the game record, or "" if not recording.
func (e *Engine) RecordPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return ""
	}
	return e.record.FilePath
}

// Close stops a running search, waits for it and closes the game record.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record != nil {
		e.record.Close()
		e.record = nil
	}
}
