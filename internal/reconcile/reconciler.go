// Package reconcile persists renumbered deck sequences and tracks, per board,
// whether the local order is known to match the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"deckboard/internal/apperr"
	"deckboard/internal/metrics"
	"deckboard/internal/model"
	"deckboard/internal/ordering"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opFlush  = "reconcile.flush"
	opResync = "reconcile.resync"
)

// Store is the part of the ordered collection store the reconciler needs.
type Store interface {
	SelectByBoard(ctx context.Context, boardID, workspaceID uuid.UUID) ([]model.Deck, error)
	UpsertAll(ctx context.Context, decks []model.Deck) error
}

type State int

const (
	StateIdle State = iota
	StateFlushing
)

func (s State) String() string {
	if s == StateFlushing {
		return "flushing"
	}
	return "idle"
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSettled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSettled:
		return "settled"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Status is a point-in-time view of one board's sync state. Desynced stays
// true after a failed flush until a later flush settles or Resync runs.
type Status struct {
	State       State
	LastOutcome Outcome
	LastError   error
	Desynced    bool
	Flushes     uint64
}

// SyncError reports a flush the store rejected. The whole sequence must be
// treated as unsynced.
type SyncError struct {
	BoardID uuid.UUID
	Size    int
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("flush of %d decks for board %s failed: %v", e.Size, e.BoardID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

type boardSync struct {
	// flushMu serializes flushes for one board in arrival order of the lock.
	flushMu sync.Mutex

	mu     sync.Mutex
	status Status
}

type Reconciler struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	boards map[uuid.UUID]*boardSync
}

func New(store Store, logger *zap.Logger, m *metrics.Metrics) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:   store,
		logger:  logger,
		metrics: m,
		boards:  make(map[uuid.UUID]*boardSync),
	}
}

// Flush submits the full sequence as one batched upsert keyed by id.
// Overlapping flushes for the same board run one after another; across
// processes the last upsert to land wins. decks is never modified.
func (r *Reconciler) Flush(ctx context.Context, decks []model.Deck) error {
	if len(decks) == 0 {
		return nil
	}
	boardID := decks[0].BoardID
	for _, d := range decks {
		if d.BoardID != boardID {
			return apperr.Validation(opFlush, "all decks in a flush must belong to the same board")
		}
	}
	if err := ordering.Verify(decks); err != nil {
		return apperr.Validation(opFlush, err.Error())
	}

	payload := make([]model.Deck, len(decks))
	copy(payload, decks)

	bs := r.board(boardID)
	start := time.Now()
	bs.flushMu.Lock()
	defer bs.flushMu.Unlock()

	// cancelled while queued; nothing was stored
	if err := ctx.Err(); err != nil {
		syncErr := &SyncError{BoardID: boardID, Size: len(payload), Err: apperr.Store(opFlush, err)}
		bs.finish(OutcomeFailed, syncErr)
		r.metrics.RecordFlush(metrics.FlushOutcomeSkipped, len(payload), time.Since(start))
		return syncErr
	}

	bs.setState(StateFlushing)
	err := r.store.UpsertAll(ctx, payload)
	duration := time.Since(start)

	if err != nil {
		syncErr := &SyncError{BoardID: boardID, Size: len(payload), Err: toStoreError(opFlush, err)}
		bs.finish(OutcomeFailed, syncErr)
		r.metrics.RecordFlush(metrics.FlushOutcomeFailed, len(payload), duration)
		r.logger.Warn("deck order flush failed",
			zap.String("board_id", boardID.String()),
			zap.Int("decks", len(payload)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return syncErr
	}

	bs.finish(OutcomeSettled, nil)
	r.metrics.RecordFlush(metrics.FlushOutcomeSettled, len(payload), duration)
	r.logger.Debug("deck order flushed",
		zap.String("board_id", boardID.String()),
		zap.Int("decks", len(payload)),
		zap.Duration("duration", duration),
	)
	return nil
}

// Drift lists how the remote order differed from the local view.
type Drift struct {
	Reordered []uuid.UUID
	Missing   []uuid.UUID
	Added     []uuid.UUID
}

func (d Drift) Empty() bool {
	return len(d.Reordered) == 0 && len(d.Missing) == 0 && len(d.Added) == 0
}

// Resync fetches the settled order, reports drift against the controller's
// current view and reloads the controller with the remote sequence.
func (r *Reconciler) Resync(ctx context.Context, ctrl *ordering.Controller, boardID, workspaceID uuid.UUID) (Drift, error) {
	remote, err := r.store.SelectByBoard(ctx, boardID, workspaceID)
	if err != nil {
		return Drift{}, toStoreError(opResync, err)
	}

	drift := diff(ctrl.CurrentOrder(), remote)
	ctrl.Load(remote)
	r.board(boardID).clearDesync()

	if !drift.Empty() {
		r.logger.Info("board order drift resolved",
			zap.String("board_id", boardID.String()),
			zap.Int("reordered", len(drift.Reordered)),
			zap.Int("missing", len(drift.Missing)),
			zap.Int("added", len(drift.Added)),
		)
	}
	return drift, nil
}

func (r *Reconciler) Status(boardID uuid.UUID) Status {
	r.mu.Lock()
	bs, ok := r.boards[boardID]
	r.mu.Unlock()
	if !ok {
		return Status{}
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.status
}

func (r *Reconciler) board(boardID uuid.UUID) *boardSync {
	r.mu.Lock()
	defer r.mu.Unlock()
	bs, ok := r.boards[boardID]
	if !ok {
		bs = &boardSync{}
		r.boards[boardID] = bs
	}
	return bs
}

func (b *boardSync) setState(s State) {
	b.mu.Lock()
	b.status.State = s
	b.mu.Unlock()
}

// finish records the outcome; the state machine always returns to idle.
func (b *boardSync) finish(outcome Outcome, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.State = StateIdle
	b.status.LastOutcome = outcome
	b.status.LastError = err
	b.status.Flushes++
	b.status.Desynced = outcome == OutcomeFailed
}

func (b *boardSync) clearDesync() {
	b.mu.Lock()
	b.status.Desynced = false
	b.mu.Unlock()
}

func toStoreError(op string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Store(op, err)
}

func diff(local, remote []model.Deck) Drift {
	localOrder := make(map[uuid.UUID]int, len(local))
	for _, d := range local {
		localOrder[d.ID] = d.Order
	}
	var drift Drift
	remoteSeen := make(map[uuid.UUID]bool, len(remote))
	for _, d := range remote {
		remoteSeen[d.ID] = true
		order, ok := localOrder[d.ID]
		switch {
		case !ok:
			drift.Added = append(drift.Added, d.ID)
		case order != d.Order:
			drift.Reordered = append(drift.Reordered, d.ID)
		}
	}
	for _, d := range local {
		if !remoteSeen[d.ID] {
			drift.Missing = append(drift.Missing, d.ID)
		}
	}
	return drift
}
