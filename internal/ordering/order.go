package ordering

import (
	"fmt"
	"sort"
	"time"

	"deckboard/internal/model"
)

// Renumber assigns Order = index+1 to every deck and stamps the decks whose
// order changed with at. It returns how many changed.
func Renumber(decks []model.Deck, at time.Time) int {
	changed := 0
	for i := range decks {
		if decks[i].Order != i+1 {
			decks[i].Order = i + 1
			decks[i].UpdatedAt = at
			changed++
		}
	}
	return changed
}

// SortByOrder sorts ascending by Order. Ties keep their incoming position.
func SortByOrder(decks []model.Deck) {
	sort.SliceStable(decks, func(i, j int) bool {
		return decks[i].Order < decks[j].Order
	})
}

// Verify checks that the orders of decks form exactly {1..N}.
func Verify(decks []model.Deck) error {
	seen := make([]bool, len(decks)+1)
	for _, d := range decks {
		if d.Order < 1 || d.Order > len(decks) {
			return fmt.Errorf("deck %s has order %d outside 1..%d", d.ID, d.Order, len(decks))
		}
		if seen[d.Order] {
			return fmt.Errorf("order %d is used more than once", d.Order)
		}
		seen[d.Order] = true
	}
	return nil
}

// NextOrder is the order given to a deck appended after existing ones.
func NextOrder(currentMax int) int {
	if currentMax < 1 {
		return 1
	}
	return currentMax + 1
}

func clone(decks []model.Deck) []model.Deck {
	if decks == nil {
		return []model.Deck{}
	}
	out := make([]model.Deck, len(decks))
	copy(out, decks)
	return out
}
