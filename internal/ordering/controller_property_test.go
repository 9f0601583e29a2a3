package ordering_test

import (
	"testing"

	"deckboard/internal/ordering"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type gesture struct {
	Source    int
	Target    int
	Placement int
}

func genGestures() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, 19),
		gen.IntRange(0, 19),
		gen.IntRange(0, 2),
	).Map(func(values []interface{}) gesture {
		return gesture{Source: values[0].(int), Target: values[1].(int), Placement: values[2].(int)}
	}))
}

// For any sequence of moves on a valid N-deck board, orders stay exactly {1..N}.
func TestProperty_MovesKeepOrderDense(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("orders form 1..N after every move", prop.ForAll(
		func(size int, gestures []gesture) bool {
			decks := newDecks(make([]string, size)...)
			c := ordering.NewController(fixedClock)
			c.Load(decks)

			for _, g := range gestures {
				move := ordering.Move{
					SourceID:  decks[g.Source%size].ID,
					TargetID:  decks[g.Target%size].ID,
					Placement: ordering.Placement(g.Placement),
				}
				c.ApplyMove(move)
				current := c.CurrentOrder()
				if len(current) != size || ordering.Verify(current) != nil {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		genGestures(),
	))

	properties.TestingRun(t)
}

// A move never adds, drops or duplicates decks.
func TestProperty_MovesArePermutations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("deck ids are preserved", prop.ForAll(
		func(size, source, target, placement int) bool {
			decks := newDecks(make([]string, size)...)
			c := ordering.NewController(fixedClock)
			c.Load(decks)

			got, _ := c.ApplyMove(ordering.Move{
				SourceID:  decks[source%size].ID,
				TargetID:  decks[target%size].ID,
				Placement: ordering.Placement(placement),
			})

			seen := make(map[string]bool, size)
			for _, d := range got {
				seen[d.ID.String()] = true
			}
			for _, d := range decks {
				if !seen[d.ID.String()] {
					return false
				}
			}
			return len(got) == size
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 19),
		gen.IntRange(0, 19),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
