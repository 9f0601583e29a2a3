// Package ordering holds the in-memory deck order of one board and turns
// drag-and-drop gestures into fully renumbered sequences.
package ordering

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"deckboard/internal/model"

	"github.com/google/uuid"
)

// Placement says where the dragged deck lands relative to the drop target.
type Placement int

const (
	PlaceBefore Placement = iota
	PlaceAfter
	// PlaceEnd is the "end of list" sentinel; TargetID is ignored.
	PlaceEnd
)

func (p Placement) String() string {
	switch p {
	case PlaceBefore:
		return "before"
	case PlaceAfter:
		return "after"
	case PlaceEnd:
		return "end"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before", "":
		return PlaceBefore, nil
	case "after":
		return PlaceAfter, nil
	case "end":
		return PlaceEnd, nil
	default:
		return 0, fmt.Errorf("unknown placement %q", s)
	}
}

type Move struct {
	SourceID  uuid.UUID
	TargetID  uuid.UUID
	Placement Placement
}

// Controller is not safe for concurrent use; gestures are applied one at a
// time by the owner of the board view.
type Controller struct {
	decks   []model.Deck
	pending bool
	now     func() time.Time
}

func NewController(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{decks: []model.Deck{}, now: now}
}

// Load replaces the working sequence with decks sorted by order and clears
// the pending-flush marker.
func (c *Controller) Load(decks []model.Deck) {
	c.decks = clone(decks)
	SortByOrder(c.decks)
	c.pending = false
}

// ApplyMove removes the source deck, reinserts it relative to the target and
// renumbers the whole sequence. The boolean is false for a no-op, in which
// case the current sequence is returned untouched and nothing is pending.
func (c *Controller) ApplyMove(m Move) ([]model.Deck, bool) {
	src := c.indexOf(m.SourceID)
	if src < 0 {
		return c.CurrentOrder(), false
	}
	if m.Placement != PlaceEnd && (m.SourceID == m.TargetID || c.indexOf(m.TargetID) < 0) {
		return c.CurrentOrder(), false
	}

	next := make([]model.Deck, 0, len(c.decks))
	next = append(next, c.decks[:src]...)
	next = append(next, c.decks[src+1:]...)

	moved := c.decks[src]
	at := len(next)
	if m.Placement != PlaceEnd {
		for i := range next {
			if next[i].ID == m.TargetID {
				at = i
				break
			}
		}
		if m.Placement == PlaceAfter {
			at++
		}
	}
	next = append(next, model.Deck{})
	copy(next[at+1:], next[at:])
	next[at] = moved

	if !c.commit(next) {
		return c.CurrentOrder(), false
	}
	return c.CurrentOrder(), true
}

// commit renumbers next, stamping the decks that moved, and adopts it when
// anything changed.
func (c *Controller) commit(next []model.Deck) bool {
	if Renumber(next, c.now().UTC()) == 0 {
		return false
	}
	c.decks = next
	c.pending = true
	return true
}

// ErrNotPermutation is returned by Arrange when the ids are not exactly the
// decks of the board.
var ErrNotPermutation = errors.New("deck ids must list every deck of the board exactly once")

// Arrange replaces the sequence with the decks in ids order and renumbers it.
// Like ApplyMove, only decks whose order changes get a new UpdatedAt and an
// unchanged arrangement is a no-op.
func (c *Controller) Arrange(ids []uuid.UUID) ([]model.Deck, bool, error) {
	if len(ids) != len(c.decks) {
		return c.CurrentOrder(), false, ErrNotPermutation
	}
	byID := make(map[uuid.UUID]model.Deck, len(c.decks))
	for _, d := range c.decks {
		byID[d.ID] = d
	}
	next := make([]model.Deck, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return c.CurrentOrder(), false, ErrNotPermutation
		}
		delete(byID, id)
		next = append(next, d)
	}

	if !c.commit(next) {
		return c.CurrentOrder(), false, nil
	}
	return c.CurrentOrder(), true, nil
}

// Remove drops a deck deleted elsewhere and closes the gap it leaves. The
// pending marker is kept so an unflushed order survives the removal.
func (c *Controller) Remove(id uuid.UUID) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]model.Deck, 0, len(c.decks)-1)
	next = append(next, c.decks[:i]...)
	next = append(next, c.decks[i+1:]...)
	Renumber(next, c.now().UTC())
	c.decks = next
	return true
}

// Append adds a deck created elsewhere at the end of the sequence.
func (c *Controller) Append(deck model.Deck) {
	if c.indexOf(deck.ID) >= 0 {
		return
	}
	deck.Order = len(c.decks) + 1
	c.decks = append(c.decks, deck)
}

// Replace swaps in the stored copy of a deck changed elsewhere, keeping its
// position in the working sequence.
func (c *Controller) Replace(deck model.Deck) bool {
	i := c.indexOf(deck.ID)
	if i < 0 {
		return false
	}
	deck.Order = c.decks[i].Order
	c.decks[i] = deck
	return true
}

// CurrentOrder returns a copy of the working sequence.
func (c *Controller) CurrentOrder() []model.Deck {
	return clone(c.decks)
}

// Pending reports whether a move has been applied since the last Load or
// MarkFlushed.
func (c *Controller) Pending() bool {
	return c.pending
}

func (c *Controller) MarkFlushed() {
	c.pending = false
}

func (c *Controller) Len() int {
	return len(c.decks)
}

func (c *Controller) indexOf(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range c.decks {
		if c.decks[i].ID == id {
			return i
		}
	}
	return -1
}
