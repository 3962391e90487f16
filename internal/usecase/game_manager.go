package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-series/internal/tictactoe"
)

type sessionRepoDep interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type botServiceDep interface {
	MakeTurn(session *entity.Session) (int, tictactoe.Outcome, error)
}

// Delays between a state change and the follow-up the manager schedules for it.
type Delays struct {
	ComputerMove time.Duration
	RoundReset   time.Duration
}

type pendingTask struct {
	seq    uint64
	cancel scheduler.Cancel
}

// GameManager drives sessions: it applies human moves, plays the computer's
// replies and starts the next round after a short pause.
//
// All operations, including scheduled ones, are serialized by a single mutex.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepoDep
	botService  botServiceDep
	scheduler   scheduler.Scheduler
	delays      Delays

	mu        sync.Mutex
	seq       uint64
	pending   map[string]pendingTask
	observers []func(session *entity.Session)
}

func NewGameManager(
	logger *slog.Logger,
	sessionRepo sessionRepoDep,
	botService botServiceDep,
	sched scheduler.Scheduler,
	delays Delays,
) *GameManager {
	return &GameManager{
		logger: logger,

		sessionRepo: sessionRepo,
		botService:  botService,
		scheduler:   sched,
		delays:      delays,

		pending: make(map[string]pendingTask),
	}
}

// OnUpdate registers fn to receive every session changed by a scheduled task.
// fn is called without the manager's lock held.
func (that *GameManager) OnUpdate(fn func(session *entity.Session)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.observers = append(that.observers, fn)
}

// StartSession chooses a mode and starts a fresh series. An empty id creates a new session.
func (that *GameManager) StartSession(ctx context.Context, id, mode string) (*entity.Session, error) {
	log := that.logger.With("method", "StartSession", "mode", mode)

	that.mu.Lock()
	defer that.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		session = entity.NewSession(id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err = tictactoe.StartSession(session, mode); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	that.cancelPending(id)

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info("session started", "sessionID", id)

	return session, nil
}

// MakeTurn applies a human move. A rejected move returns the unchanged session with the error.
func (that *GameManager) MakeTurn(ctx context.Context, id, mark string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome, err := tictactoe.ApplyMove(session, entity.ActorHuman, mark, cell)
	if err != nil {
		log.Debug("move rejected", "mark", mark, "cell", cell, "error", err)

		return session, err
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Debug("move applied", "mark", mark, "cell", cell, "outcome", outcome)

	that.afterMove(session, outcome)

	return session, nil
}

// ResetBoard clears the board and starts the next round, keeping the score.
func (that *GameManager) ResetBoard(ctx context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case session.IsIdle():
		return session, apperror.ErrSessionNotStarted
	case session.IsSessionOver():
		return session, apperror.ErrSessionOver
	}

	that.cancelPending(id)
	tictactoe.ResetBoard(session)

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ResetSession zeroes the score and starts over in the current mode.
func (that *GameManager) ResetSession(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "ResetSession", "sessionID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.IsIdle() {
		return session, apperror.ErrSessionNotStarted
	}

	that.cancelPending(id)
	tictactoe.ResetSession(session)

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info("session restarted")

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.getSession(ctx, id)
}

// EndSession drops the session and any task still scheduled for it.
func (that *GameManager) EndSession(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelPending(id)

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "method", "EndSession", "sessionID", id)

	return nil
}

// afterMove schedules whatever follows a successful move. Must be called with the lock held.
func (that *GameManager) afterMove(session *entity.Session, outcome tictactoe.Outcome) {
	switch outcome {
	case tictactoe.OutcomeContinue:
		if session.IsComputerTurn() {
			that.schedule(session, that.delays.ComputerMove, that.runComputerMove)
		}
	case tictactoe.OutcomeRoundWon, tictactoe.OutcomeDraw:
		that.schedule(session, that.delays.RoundReset, that.runRoundReset)
	case tictactoe.OutcomeChampion:
		that.logger.Info("champion decided", "sessionID", session.ID, "champion", session.Champion)
	}
}

// schedule replaces the pending task of the session. The task receives the epoch
// seen at scheduling time so it can tell whether the session moved on meanwhile.
func (that *GameManager) schedule(
	session *entity.Session,
	delay time.Duration,
	run func(ctx context.Context, id string, epoch uint64) *entity.Session,
) {
	id, epoch := session.ID, session.Epoch

	that.cancelPending(id)

	that.seq++
	seq := that.seq

	cancel := that.scheduler.Schedule(delay, func() {
		updated := that.fire(id, seq, epoch, run)
		if updated != nil {
			that.notify(updated)
		}
	})

	that.pending[id] = pendingTask{seq: seq, cancel: cancel}
}

func (that *GameManager) fire(
	id string,
	seq, epoch uint64,
	run func(ctx context.Context, id string, epoch uint64) *entity.Session,
) *entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	if task, ok := that.pending[id]; ok && task.seq == seq {
		delete(that.pending, id)
	}

	return run(context.Background(), id, epoch)
}

func (that *GameManager) runComputerMove(ctx context.Context, id string, epoch uint64) *entity.Session {
	log := that.logger.With("method", "runComputerMove", "sessionID", id)

	session, err := that.getSession(ctx, id)
	if err != nil {
		log.Warn("computer move dropped", "error", err)
		return nil
	}

	if session.Epoch != epoch || !session.IsComputerTurn() {
		log.Debug("stale computer move discarded", "epoch", epoch, "currentEpoch", session.Epoch)
		return nil
	}

	cell, outcome, err := that.botService.MakeTurn(session)
	if err != nil {
		log.Error("computer failed to move", "error", err)
		return nil
	}

	if err = that.updateSession(ctx, session); err != nil {
		log.Error("failed to save computer move", "error", err)
		return nil
	}

	log.Debug("computer moved", "cell", cell, "outcome", outcome)

	that.afterMove(session, outcome)

	return session
}

func (that *GameManager) runRoundReset(ctx context.Context, id string, epoch uint64) *entity.Session {
	log := that.logger.With("method", "runRoundReset", "sessionID", id)

	session, err := that.getSession(ctx, id)
	if err != nil {
		log.Warn("round reset dropped", "error", err)
		return nil
	}

	if session.Epoch != epoch || !session.IsRoundOver() {
		log.Debug("stale round reset discarded", "epoch", epoch, "currentEpoch", session.Epoch)
		return nil
	}

	tictactoe.ResetBoard(session)

	if err = that.updateSession(ctx, session); err != nil {
		log.Error("failed to save next round", "error", err)
		return nil
	}

	return session
}

func (that *GameManager) notify(session *entity.Session) {
	that.mu.Lock()
	observers := make([]func(*entity.Session), len(that.observers))
	copy(observers, that.observers)
	that.mu.Unlock()

	for _, fn := range observers {
		fn(session)
	}
}

func (that *GameManager) cancelPending(id string) {
	if task, ok := that.pending[id]; ok {
		task.cancel()
		delete(that.pending, id)
	}
}

func (that *GameManager) getSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
