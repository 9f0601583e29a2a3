package ordering_test

import (
	"testing"
	"time"

	"deckboard/internal/model"
	"deckboard/internal/ordering"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	loadedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	movedAt  = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
)

func fixedClock() time.Time { return movedAt }

func newDecks(names ...string) []model.Deck {
	boardID := uuid.New()
	workspaceID := uuid.New()
	decks := make([]model.Deck, len(names))
	for i, name := range names {
		decks[i] = model.Deck{
			ID:          uuid.New(),
			BoardID:     boardID,
			WorkspaceID: workspaceID,
			Name:        name,
			Order:       i + 1,
			CreatedAt:   loadedAt,
			UpdatedAt:   loadedAt,
		}
	}
	return decks
}

func names(decks []model.Deck) []string {
	out := make([]string, len(decks))
	for i, d := range decks {
		out[i] = d.Name
	}
	return out
}

func orders(decks []model.Deck) []int {
	out := make([]int, len(decks))
	for i, d := range decks {
		out[i] = d.Order
	}
	return out
}

func TestController_Load_SortsByOrder(t *testing.T) {
	decks := newDecks("A", "B", "C")
	shuffled := []model.Deck{decks[2], decks[0], decks[1]}

	c := ordering.NewController(fixedClock)
	c.Load(shuffled)

	assert.Equal(t, []string{"A", "B", "C"}, names(c.CurrentOrder()))
	assert.False(t, c.Pending())
}

func TestController_ApplyMove_DropBeforeTarget(t *testing.T) {
	// Arrange
	decks := newDecks("A", "B", "C", "D")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	// Act
	got, moved := c.ApplyMove(ordering.Move{SourceID: decks[0].ID, TargetID: decks[2].ID, Placement: ordering.PlaceBefore})

	// Assert
	require.True(t, moved)
	assert.Equal(t, []string{"B", "A", "C", "D"}, names(got))
	assert.Equal(t, []int{1, 2, 3, 4}, orders(got))
	assert.True(t, c.Pending())
}

func TestController_ApplyMove_DragToAfterLast(t *testing.T) {
	// Arrange
	decks := newDecks("To Do", "Doing", "Done")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	// Act
	got, moved := c.ApplyMove(ordering.Move{SourceID: decks[0].ID, TargetID: decks[2].ID, Placement: ordering.PlaceAfter})

	// Assert
	require.True(t, moved)
	assert.Equal(t, []uuid.UUID{decks[1].ID, decks[2].ID, decks[0].ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, []int{1, 2, 3}, orders(got))
}

func TestController_ApplyMove_LastToFirst(t *testing.T) {
	decks := newDecks("A", "B", "C", "D")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	got, moved := c.ApplyMove(ordering.Move{SourceID: decks[3].ID, TargetID: decks[0].ID, Placement: ordering.PlaceBefore})

	require.True(t, moved)
	assert.Equal(t, []string{"D", "A", "B", "C"}, names(got))
	assert.Equal(t, []int{1, 2, 3, 4}, orders(got))
}

func TestController_ApplyMove_ToEnd(t *testing.T) {
	decks := newDecks("A", "B", "C")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	got, moved := c.ApplyMove(ordering.Move{SourceID: decks[0].ID, Placement: ordering.PlaceEnd})

	require.True(t, moved)
	assert.Equal(t, []string{"B", "C", "A"}, names(got))
	assert.Equal(t, []int{1, 2, 3}, orders(got))
}

func TestController_ApplyMove_RefreshesUpdatedAtOnlyForShiftedDecks(t *testing.T) {
	decks := newDecks("A", "B", "C", "D")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	got, moved := c.ApplyMove(ordering.Move{SourceID: decks[1].ID, TargetID: decks[2].ID, Placement: ordering.PlaceAfter})

	require.True(t, moved)
	assert.Equal(t, []string{"A", "C", "B", "D"}, names(got))
	assert.Equal(t, loadedAt, got[0].UpdatedAt)
	assert.Equal(t, movedAt, got[1].UpdatedAt)
	assert.Equal(t, movedAt, got[2].UpdatedAt)
	assert.Equal(t, loadedAt, got[3].UpdatedAt)
}

func TestController_ApplyMove_NoOps(t *testing.T) {
	decks := newDecks("A", "B", "C")

	tests := []struct {
		name string
		move ordering.Move
	}{
		{name: "same source and target", move: ordering.Move{SourceID: decks[0].ID, TargetID: decks[0].ID}},
		{name: "unknown source", move: ordering.Move{SourceID: uuid.New(), TargetID: decks[1].ID}},
		{name: "unknown target", move: ordering.Move{SourceID: decks[0].ID, TargetID: uuid.New()}},
		{name: "drop outside any target", move: ordering.Move{SourceID: decks[0].ID}},
		{name: "already in place", move: ordering.Move{SourceID: decks[0].ID, TargetID: decks[1].ID, Placement: ordering.PlaceBefore}},
		{name: "last to end", move: ordering.Move{SourceID: decks[2].ID, Placement: ordering.PlaceEnd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ordering.NewController(fixedClock)
			c.Load(decks)
			before := c.CurrentOrder()

			got, moved := c.ApplyMove(tt.move)

			assert.False(t, moved)
			assert.False(t, c.Pending())
			assert.Equal(t, before, got)
			assert.Equal(t, before, c.CurrentOrder())
		})
	}
}

func TestController_CurrentOrder_ReturnsCopy(t *testing.T) {
	decks := newDecks("A", "B")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	snapshot := c.CurrentOrder()
	snapshot[0].Name = "mutated"
	decks[1].Name = "also mutated"

	assert.Equal(t, []string{"A", "B"}, names(c.CurrentOrder()))
}

func TestController_LoadClearsPending(t *testing.T) {
	decks := newDecks("A", "B")
	c := ordering.NewController(fixedClock)
	c.Load(decks)
	_, moved := c.ApplyMove(ordering.Move{SourceID: decks[0].ID, Placement: ordering.PlaceEnd})
	require.True(t, moved)

	c.Load(decks)

	assert.False(t, c.Pending())
	assert.Equal(t, []string{"A", "B"}, names(c.CurrentOrder()))
}

func TestController_EmptyBoard(t *testing.T) {
	c := ordering.NewController(nil)
	c.Load(nil)

	got, moved := c.ApplyMove(ordering.Move{SourceID: uuid.New(), Placement: ordering.PlaceEnd})

	assert.False(t, moved)
	assert.Empty(t, got)
	assert.Equal(t, 0, c.Len())
}

func TestParsePlacement(t *testing.T) {
	for input, want := range map[string]ordering.Placement{
		"before": ordering.PlaceBefore,
		"":       ordering.PlaceBefore,
		"AFTER":  ordering.PlaceAfter,
		" end ":  ordering.PlaceEnd,
	} {
		got, err := ordering.ParsePlacement(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ordering.ParsePlacement("sideways")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	decks := newDecks("A", "B", "C")
	assert.NoError(t, ordering.Verify(decks))
	assert.NoError(t, ordering.Verify(nil))

	gap := newDecks("A", "B", "C")
	gap[2].Order = 4
	assert.Error(t, ordering.Verify(gap))

	dup := newDecks("A", "B", "C")
	dup[2].Order = 2
	assert.Error(t, ordering.Verify(dup))
}

func TestRenumberAndNextOrder(t *testing.T) {
	decks := newDecks("A", "B", "C")
	decks[1].Order, decks[2].Order = 7, 9

	assert.Equal(t, 2, ordering.Renumber(decks, movedAt))
	assert.Equal(t, []int{1, 2, 3}, orders(decks))
	assert.Equal(t, loadedAt, decks[0].UpdatedAt)
	assert.Equal(t, movedAt, decks[1].UpdatedAt)
	assert.Zero(t, ordering.Renumber(decks, movedAt))

	assert.Equal(t, 1, ordering.NextOrder(0))
	assert.Equal(t, 4, ordering.NextOrder(3))
}

func TestController_Arrange(t *testing.T) {
	// Arrange
	decks := newDecks("A", "B", "C")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	// Act
	out, changed, err := c.Arrange([]uuid.UUID{decks[2].ID, decks[1].ID, decks[0].ID})

	// Assert
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, c.Pending())
	assert.Equal(t, []string{"C", "B", "A"}, names(out))
	assert.Equal(t, []int{1, 2, 3}, orders(out))
	assert.Equal(t, loadedAt, out[1].UpdatedAt)
	assert.Equal(t, movedAt, out[0].UpdatedAt)
}

func TestController_Arrange_Rejects(t *testing.T) {
	decks := newDecks("A", "B")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	tests := map[string][]uuid.UUID{
		"too short": {decks[0].ID},
		"unknown":   {decks[0].ID, uuid.New()},
		"duplicate": {decks[0].ID, decks[0].ID},
	}
	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			out, changed, err := c.Arrange(ids)
			assert.ErrorIs(t, err, ordering.ErrNotPermutation)
			assert.False(t, changed)
			assert.Equal(t, decks, out)
		})
	}
	assert.False(t, c.Pending())
}

func TestController_Arrange_SameOrderIsNoop(t *testing.T) {
	decks := newDecks("A", "B")
	c := ordering.NewController(fixedClock)
	c.Load(decks)

	out, changed, err := c.Arrange([]uuid.UUID{decks[0].ID, decks[1].ID})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, c.Pending())
	assert.Equal(t, decks, out)
}

func TestController_ExternalChangesKeepPendingOrder(t *testing.T) {
	// Arrange
	decks := newDecks("A", "B", "C")
	c := ordering.NewController(fixedClock)
	c.Load(decks)
	_, moved := c.ApplyMove(ordering.Move{SourceID: decks[0].ID, Placement: ordering.PlaceEnd})
	require.True(t, moved)

	renamed := decks[2]
	renamed.Name = "Shipped"
	renamed.Order = 99
	created := model.Deck{ID: uuid.New(), BoardID: decks[0].BoardID, Name: "D", Order: 4}

	// Act
	removed := c.Remove(decks[1].ID)
	replaced := c.Replace(renamed)
	c.Append(created)
	c.Append(created)

	// Assert
	assert.True(t, removed)
	assert.True(t, replaced)
	assert.True(t, c.Pending())
	out := c.CurrentOrder()
	assert.Equal(t, []string{"Shipped", "A", "D"}, names(out))
	assert.Equal(t, []int{1, 2, 3}, orders(out))
	assert.NoError(t, ordering.Verify(out))

	assert.False(t, c.Remove(uuid.New()))
	assert.False(t, c.Replace(model.Deck{ID: uuid.New()}))
}
