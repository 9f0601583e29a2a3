package service

import (
	"sync"
	"time"

	"deckboard/internal/ordering"

	"github.com/google/uuid"
)

// BoardSession is the server-held view of one board: the controller with
// its working order, guarded so gestures on a board apply one at a time.
type BoardSession struct {
	mu     sync.Mutex
	ctrl   *ordering.Controller
	loaded bool

	// refs counts holders and waiters; guarded by sessions.mu.
	refs int
}

// sessions hands out one BoardSession per board. A session is dropped once
// its last holder releases it with nothing pending, so only boards holding an
// unflushed order stay in memory.
type sessions struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[uuid.UUID]*BoardSession
}

func newSessions(now func() time.Time) *sessions {
	return &sessions{now: now, items: make(map[uuid.UUID]*BoardSession)}
}

// acquire returns the board's session locked. Every acquire must be paired
// with release.
func (s *sessions) acquire(boardID uuid.UUID) *BoardSession {
	s.mu.Lock()
	session, ok := s.items[boardID]
	if !ok {
		session = &BoardSession{ctrl: ordering.NewController(s.now)}
		s.items[boardID] = session
	}
	session.refs++
	s.mu.Unlock()

	session.mu.Lock()
	return session
}

func (s *sessions) release(boardID uuid.UUID, session *BoardSession) {
	s.mu.Lock()
	session.refs--
	if session.refs == 0 && !session.ctrl.Pending() {
		delete(s.items, boardID)
	}
	s.mu.Unlock()
	session.mu.Unlock()
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
