package service

import (
	"context"
	"errors"
	"time"

	"deckboard/internal/apperr"
	"deckboard/internal/metrics"
	"deckboard/internal/model"
	"deckboard/internal/ordering"
	"deckboard/internal/realtime"
	"deckboard/internal/reconcile"
	"deckboard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opList    = "deck.list"
	opCreate  = "deck.create"
	opRename  = "deck.rename"
	opDelete  = "deck.delete"
	opMove    = "deck.move"
	opReorder = "deck.reorder"
	opResync  = "deck.resync"
	opWatch   = "deck.watch"
)

const msgBoardNotFound = "Board not found or it doesn't belong to your current workspace"

// DeckStore is the ordered collection store.
type DeckStore interface {
	reconcile.Store
	GetByID(ctx context.Context, id uuid.UUID) (*model.Deck, error)
	InsertAppend(ctx context.Context, boardID, workspaceID, userID uuid.UUID, name string) (*model.Deck, error)
	RenameByID(ctx context.Context, id uuid.UUID, name string) error
	DeleteByID(ctx context.Context, id, userID uuid.UUID) (*model.Deck, error)
}

type BoardStore interface {
	GetInWorkspace(ctx context.Context, id, workspaceID uuid.UUID) (*model.Board, error)
}

// WorkspaceAccess answers whether a user can see a workspace.
type WorkspaceAccess interface {
	Contains(ctx context.Context, userID, workspaceID uuid.UUID) (bool, error)
}

type Publisher interface {
	Publish(event realtime.Event)
}

// MoveResult is the board order after a gesture. Moved is false for a no-op.
// Desynced is set when the order was kept locally but not stored.
type MoveResult struct {
	Decks    []model.Deck
	Moved    bool
	Desynced bool
}

type ResyncResult struct {
	Decks []model.Deck
	Drift reconcile.Drift
}

type DeckService struct {
	decks      DeckStore
	boards     BoardStore
	access     WorkspaceAccess
	reconciler *reconcile.Reconciler
	events     Publisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	sessions   *sessions
}

type Option func(*DeckService)

func WithClock(now func() time.Time) Option {
	return func(s *DeckService) { s.sessions = newSessions(now) }
}

func NewDeckService(
	decks DeckStore,
	boards BoardStore,
	access WorkspaceAccess,
	reconciler *reconcile.Reconciler,
	events Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts ...Option,
) *DeckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DeckService{
		decks:      decks,
		boards:     boards,
		access:     access,
		reconciler: reconciler,
		events:     events,
		metrics:    m,
		logger:     logger,
		sessions:   newSessions(time.Now),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DeckService) List(ctx context.Context, userID, boardID, workspaceID uuid.UUID) ([]model.Deck, error) {
	if err := s.authorizeBoard(ctx, opList, userID, boardID, workspaceID); err != nil {
		return nil, err
	}
	decks, err := s.decks.SelectByBoard(ctx, boardID, workspaceID)
	if err != nil {
		return nil, storeError(opList, err)
	}
	return decks, nil
}

// Create validates the name before touching the store and appends the deck
// after the board's current last deck.
func (s *DeckService) Create(ctx context.Context, userID, boardID, workspaceID uuid.UUID, name string) (*model.Deck, error) {
	name, err := model.NormalizeDeckName(name)
	if err != nil {
		return nil, apperr.Validation(opCreate, err.Error())
	}
	if err := s.authorizeBoard(ctx, opCreate, userID, boardID, workspaceID); err != nil {
		return nil, err
	}

	session := s.sessions.acquire(boardID)
	defer s.sessions.release(boardID, session)

	deck, err := s.decks.InsertAppend(ctx, boardID, workspaceID, userID, name)
	if err != nil {
		return nil, storeError(opCreate, err)
	}
	if session.loaded {
		session.ctrl.Append(*deck)
	}
	s.metrics.IncrementDeckCreated()
	s.publish(realtime.EventDeckCreated, boardID, workspaceID, deck.ID)
	return deck, nil
}

func (s *DeckService) Rename(ctx context.Context, userID, deckID uuid.UUID, name string) (*model.Deck, error) {
	name, err := model.NormalizeDeckName(name)
	if err != nil {
		return nil, apperr.Validation(opRename, err.Error())
	}
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, storeError(opRename, err)
	}
	if err := s.authorizeWorkspace(ctx, opRename, userID, deck.WorkspaceID); err != nil {
		return nil, err
	}

	session := s.sessions.acquire(deck.BoardID)
	defer s.sessions.release(deck.BoardID, session)

	if err := s.decks.RenameByID(ctx, deckID, name); err != nil {
		return nil, storeError(opRename, err)
	}
	updated, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, storeError(opRename, err)
	}
	if session.loaded {
		session.ctrl.Replace(*updated)
	}
	s.publish(realtime.EventDeckRenamed, updated.BoardID, updated.WorkspaceID, updated.ID)
	return updated, nil
}

// Delete removes a deck the user owns; survivors are renumbered by the store.
// A board session holding an unflushed order drops the deck too, so the next
// flush cannot write it back.
func (s *DeckService) Delete(ctx context.Context, userID, deckID uuid.UUID) error {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return storeError(opDelete, err)
	}

	session := s.sessions.acquire(deck.BoardID)
	defer s.sessions.release(deck.BoardID, session)

	deleted, err := s.decks.DeleteByID(ctx, deckID, userID)
	if err != nil {
		return storeError(opDelete, err)
	}
	if session.loaded {
		session.ctrl.Remove(deleted.ID)
	}
	s.metrics.IncrementDeckDeleted()
	s.publish(realtime.EventDeckDeleted, deleted.BoardID, deleted.WorkspaceID, deleted.ID)
	return nil
}

// Move applies one drag-and-drop gesture and flushes the renumbered board.
// A failed flush keeps the moved order in the board session and reports it
// as desynced; the next gesture builds on it until Resync reloads the board.
func (s *DeckService) Move(ctx context.Context, userID, boardID, workspaceID uuid.UUID, move ordering.Move) (MoveResult, error) {
	if move.SourceID == uuid.Nil {
		return MoveResult{}, apperr.Validation(opMove, "source deck is required")
	}
	if move.Placement != ordering.PlaceEnd && move.TargetID == uuid.Nil {
		return MoveResult{}, apperr.Validation(opMove, "target deck is required unless placing at the end")
	}
	if err := s.authorizeBoard(ctx, opMove, userID, boardID, workspaceID); err != nil {
		return MoveResult{}, err
	}

	session := s.sessions.acquire(boardID)
	defer s.sessions.release(boardID, session)

	if err := s.prepare(ctx, opMove, session, boardID, workspaceID); err != nil {
		return MoveResult{}, err
	}

	decks, moved := session.ctrl.ApplyMove(move)
	if !moved {
		s.metrics.IncrementMoveNoop()
		return MoveResult{Decks: decks, Desynced: s.reconciler.Status(boardID).Desynced}, nil
	}
	return s.flush(ctx, session, boardID, workspaceID, decks)
}

// Reorder stores a complete client-side sequence. deckIDs must name every
// deck of the board exactly once.
func (s *DeckService) Reorder(ctx context.Context, userID, boardID, workspaceID uuid.UUID, deckIDs []uuid.UUID) (MoveResult, error) {
	if err := s.authorizeBoard(ctx, opReorder, userID, boardID, workspaceID); err != nil {
		return MoveResult{}, err
	}

	session := s.sessions.acquire(boardID)
	defer s.sessions.release(boardID, session)

	if err := s.prepare(ctx, opReorder, session, boardID, workspaceID); err != nil {
		return MoveResult{}, err
	}

	decks, changed, err := session.ctrl.Arrange(deckIDs)
	if err != nil {
		return MoveResult{}, apperr.Validation(opReorder, err.Error())
	}
	if !changed {
		s.metrics.IncrementMoveNoop()
		return MoveResult{Decks: decks, Desynced: s.reconciler.Status(boardID).Desynced}, nil
	}
	return s.flush(ctx, session, boardID, workspaceID, decks)
}

// Resync reloads the board from the store and reports how the session's
// order differed.
func (s *DeckService) Resync(ctx context.Context, userID, boardID, workspaceID uuid.UUID) (ResyncResult, error) {
	if err := s.authorizeBoard(ctx, opResync, userID, boardID, workspaceID); err != nil {
		return ResyncResult{}, err
	}

	session := s.sessions.acquire(boardID)
	defer s.sessions.release(boardID, session)

	drift, err := s.reconciler.Resync(ctx, session.ctrl, boardID, workspaceID)
	if err != nil {
		return ResyncResult{}, err
	}
	session.loaded = true
	return ResyncResult{Decks: session.ctrl.CurrentOrder(), Drift: drift}, nil
}

// Authorize checks that the user may read the board, for callers that do not
// go through a deck operation such as event streams.
func (s *DeckService) Authorize(ctx context.Context, userID, boardID, workspaceID uuid.UUID) error {
	return s.authorizeBoard(ctx, opWatch, userID, boardID, workspaceID)
}

func (s *DeckService) Status(boardID uuid.UUID) reconcile.Status {
	return s.reconciler.Status(boardID)
}

// prepare loads the stored order unless the session still holds an unflushed
// order from a failed flush.
func (s *DeckService) prepare(ctx context.Context, op string, session *BoardSession, boardID, workspaceID uuid.UUID) error {
	if session.loaded && session.ctrl.Pending() {
		return nil
	}
	decks, err := s.decks.SelectByBoard(ctx, boardID, workspaceID)
	if err != nil {
		return storeError(op, err)
	}
	session.ctrl.Load(decks)
	session.loaded = true
	return nil
}

func (s *DeckService) flush(ctx context.Context, session *BoardSession, boardID, workspaceID uuid.UUID, decks []model.Deck) (MoveResult, error) {
	if err := s.reconciler.Flush(ctx, decks); err != nil {
		return MoveResult{Decks: decks, Moved: true, Desynced: true}, err
	}
	session.ctrl.MarkFlushed()

	ids := make([]uuid.UUID, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}
	s.publish(realtime.EventDecksReordered, boardID, workspaceID, ids...)
	return MoveResult{Decks: decks, Moved: true}, nil
}

func (s *DeckService) authorizeBoard(ctx context.Context, op string, userID, boardID, workspaceID uuid.UUID) error {
	if err := s.authorizeWorkspace(ctx, op, userID, workspaceID); err != nil {
		return err
	}
	if _, err := s.boards.GetInWorkspace(ctx, boardID, workspaceID); err != nil {
		return storeError(op, err)
	}
	return nil
}

func (s *DeckService) authorizeWorkspace(ctx context.Context, op string, userID, workspaceID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperr.Auth(op, errors.New("no authenticated user"))
	}
	ok, err := s.access.Contains(ctx, userID, workspaceID)
	if err != nil {
		return apperr.Store(op, err)
	}
	if !ok {
		return apperr.NotFound(op, msgBoardNotFound)
	}
	return nil
}

func (s *DeckService) publish(eventType string, boardID, workspaceID uuid.UUID, deckIDs ...uuid.UUID) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{
		Type:        eventType,
		BoardID:     boardID,
		WorkspaceID: workspaceID,
		DeckIDs:     deckIDs,
	})
}

func storeError(op string, err error) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrBoardNotFound):
		return apperr.NotFound(op, msgBoardNotFound)
	case errors.Is(err, repository.ErrDeckNotFound):
		return apperr.NotFound(op, "Deck not found, refresh the board and try again")
	default:
		return apperr.Store(op, err)
	}
}
