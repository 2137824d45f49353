package builder

import (
	"fmt"
	"regexp"
	"testing"

	"orderbuilder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

var (
	galacticBun = models.CatalogItem{
		ID:            "galactic-bun",
		Name:          "Galactic bun",
		Category:      models.CategoryFrame,
		Proteins:      42,
		Fat:           13,
		Carbohydrates: 77,
		Calories:      1337,
		Price:         450,
		Image:         "galactic-bun.png",
		ImageMobile:   "galactic-bun-mobile.png",
		ImageLarge:    "galactic-bun-large.png",
	}
	blackHoleBun = models.CatalogItem{
		ID:       "black-hole-bun",
		Name:     "Black hole bun",
		Category: models.CategoryFrame,
		Price:    1000,
	}
	dragonSauce = models.CatalogItem{
		ID:       "dragon-scale",
		Name:     "Dragon scale sauce",
		Category: models.CategoryFillingSauce,
		Price:    200,
	}
	unicornMeat = models.CatalogItem{
		ID:       "unicorn-meat",
		Name:     "Unicorn fillet",
		Category: models.CategoryFillingSolid,
		Price:    999,
	}
	phoenixFeather = models.CatalogItem{
		ID:       "phoenix-feather",
		Name:     "Phoenix feather",
		Category: models.CategoryFillingSolid,
		Price:    750,
	}
)

func newTestBuilder() *Builder {
	return New(WithIDGenerator(SequenceGenerator("test")))
}

func stocked(t *testing.T, b *Builder) State {
	t.Helper()
	s := b.SetFrame(EmptyState(), galacticBun)
	s = b.AddFilling(s, dragonSauce)
	s = b.AddFilling(s, unicornMeat)
	s = b.AddFilling(s, phoenixFeather)
	require.Equal(t, 3, s.TotalFillingCount())
	return s
}

func names(s State) []string {
	out := make([]string, 0, len(s.Fillings))
	for _, entry := range s.Fillings {
		out = append(out, entry.Name)
	}
	return out
}

func TestEmptyState(t *testing.T) {
	s := EmptyState()
	assert.Nil(t, s.CurrentFrame())
	assert.Empty(t, s.CurrentFillings())
	assert.Equal(t, 0, s.TotalFillingCount())
	assert.True(t, s.IsEmpty())
}

func TestSetFrame(t *testing.T) {
	b := newTestBuilder()

	s := b.SetFrame(EmptyState(), galacticBun)
	require.NotNil(t, s.CurrentFrame())
	assert.Equal(t, galacticBun, *s.CurrentFrame())
	assert.Empty(t, s.Fillings)

	t.Run("replaces existing frame", func(t *testing.T) {
		withFillings := b.AddFilling(s, dragonSauce)
		replaced := b.SetFrame(withFillings, blackHoleBun)

		assert.Equal(t, blackHoleBun, *replaced.CurrentFrame())
		assert.Equal(t, withFillings.Fillings, replaced.Fillings)
		assert.Equal(t, galacticBun, *withFillings.Frame, "previous state must not change")
	})
}

func TestAddFilling(t *testing.T) {
	b := New()

	s := b.AddFilling(EmptyState(), dragonSauce)
	require.Len(t, s.Fillings, 1)
	assert.Equal(t, dragonSauce, s.Fillings[0].CatalogItem)
	assert.Regexp(t, uuidV4, s.Fillings[0].InstanceID)

	t.Run("discards preset instance id", func(t *testing.T) {
		preset := FillingEntry{CatalogItem: unicornMeat, InstanceID: "preset"}
		next := b.AddFilling(s, preset)

		require.Len(t, next.Fillings, 2)
		assert.NotEqual(t, "preset", next.Fillings[1].InstanceID)
		assert.Regexp(t, uuidV4, next.Fillings[1].InstanceID)
		assert.Len(t, s.Fillings, 1, "previous state must not change")
	})

	t.Run("nil item is ignored", func(t *testing.T) {
		assert.Equal(t, s, b.Apply(s, AddFilling{}))
	})

	t.Run("nil pointer item is ignored", func(t *testing.T) {
		var item *models.CatalogItem
		var entry *FillingEntry

		assert.NotPanics(t, func() {
			assert.Equal(t, s, b.AddFilling(s, item))
			assert.Equal(t, s, b.AddFilling(s, entry))
		})
	})

	t.Run("pointer item is accepted", func(t *testing.T) {
		item := unicornMeat
		next := b.AddFilling(s, &item)
		require.Len(t, next.Fillings, 2)
		assert.Equal(t, unicornMeat, next.Fillings[1].CatalogItem)
	})
}

func TestAddFillingUniqueIdentities(t *testing.T) {
	for name, b := range map[string]*Builder{
		"uuid":     New(),
		"sequence": newTestBuilder(),
	} {
		t.Run(name, func(t *testing.T) {
			s := EmptyState()
			for i := 0; i < 200; i++ {
				s = b.AddFilling(s, dragonSauce)
			}

			seen := make(map[string]bool, len(s.Fillings))
			for _, entry := range s.Fillings {
				assert.False(t, seen[entry.InstanceID], "duplicate instance id %s", entry.InstanceID)
				seen[entry.InstanceID] = true
			}
			assert.Len(t, seen, 200)
		})
	}
}

func TestRemoveFilling(t *testing.T) {
	b := newTestBuilder()
	s := stocked(t, b)

	removed := b.RemoveFilling(s, s.Fillings[0].InstanceID)
	assert.Equal(t, []string{"Unicorn fillet", "Phoenix feather"}, names(removed))
	assert.Equal(t, s.Frame, removed.Frame)

	t.Run("preserves order of survivors", func(t *testing.T) {
		middle := b.RemoveFilling(s, s.Fillings[1].InstanceID)
		assert.Equal(t, []FillingEntry{s.Fillings[0], s.Fillings[2]}, middle.Fillings)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		assert.Equal(t, s, b.RemoveFilling(s, "non-existent"))
	})

	t.Run("already removed id is a no-op", func(t *testing.T) {
		again := b.RemoveFilling(removed, s.Fillings[0].InstanceID)
		assert.Equal(t, removed, again)
	})

	t.Run("removes only the matching duplicate", func(t *testing.T) {
		dup := b.AddFilling(b.AddFilling(EmptyState(), dragonSauce), dragonSauce)
		left := b.RemoveFilling(dup, dup.Fillings[1].InstanceID)
		require.Len(t, left.Fillings, 1)
		assert.Equal(t, dup.Fillings[0].InstanceID, left.Fillings[0].InstanceID)
	})
}

func TestMoveFilling(t *testing.T) {
	b := newTestBuilder()
	s := stocked(t, b)
	a, bb, c := s.Fillings[0], s.Fillings[1], s.Fillings[2]

	tests := []struct {
		name      string
		index     int
		direction Direction
		want      []FillingEntry
	}{
		{"last up", 2, DirectionUp, []FillingEntry{a, c, bb}},
		{"first down", 0, DirectionDown, []FillingEntry{bb, a, c}},
		{"middle up", 1, DirectionUp, []FillingEntry{bb, a, c}},
		{"middle down", 1, DirectionDown, []FillingEntry{a, c, bb}},
		{"first up is a no-op", 0, DirectionUp, []FillingEntry{a, bb, c}},
		{"last down is a no-op", 2, DirectionDown, []FillingEntry{a, bb, c}},
		{"negative index is a no-op", -1, DirectionDown, []FillingEntry{a, bb, c}},
		{"index past end is a no-op", 3, DirectionUp, []FillingEntry{a, bb, c}},
		{"unknown direction is a no-op", 1, Direction("sideways"), []FillingEntry{a, bb, c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved := b.MoveFilling(s, tt.index, tt.direction)
			assert.Equal(t, tt.want, moved.Fillings)
			assert.Equal(t, []FillingEntry{a, bb, c}, s.Fillings, "previous state must not change")
		})
	}

	t.Run("empty list", func(t *testing.T) {
		empty := EmptyState()
		assert.Equal(t, empty, b.MoveFilling(empty, 0, DirectionDown))
	})
}

func TestClear(t *testing.T) {
	b := newTestBuilder()
	s := stocked(t, b)

	cleared := b.Apply(s, Clear{})
	assert.Equal(t, EmptyState(), cleared)
	assert.Equal(t, EmptyState(), b.Apply(cleared, Clear{}))
	assert.Equal(t, 3, s.TotalFillingCount(), "previous state must not change")
}

func TestPayload(t *testing.T) {
	b := newTestBuilder()

	assert.Empty(t, Payload(b.AddFilling(EmptyState(), dragonSauce)))

	s := stocked(t, b)
	assert.Equal(t,
		[]string{"galactic-bun", "dragon-scale", "unicorn-meat", "phoenix-feather", "galactic-bun"},
		Payload(s))
}

func TestCurrentFillingsIsACopy(t *testing.T) {
	b := newTestBuilder()
	s := stocked(t, b)

	view := s.CurrentFillings()
	view[0].Name = "mutated"
	assert.Equal(t, "Dragon scale sauce", s.Fillings[0].Name)

	frame := s.CurrentFrame()
	frame.Name = "mutated"
	assert.Equal(t, "Galactic bun", s.Frame.Name)
}

func TestSequenceGenerator(t *testing.T) {
	gen := SequenceGenerator("salt")
	for i := 1; i <= 3; i++ {
		assert.Equal(t, fmt.Sprintf("salt-%d", i), gen())
	}
	assert.Equal(t, "other-1", SequenceGenerator("other")())
}

func TestBuilderScenario(t *testing.T) {
	b := New()

	s := b.AddFilling(EmptyState(), dragonSauce)
	s = b.AddFilling(s, unicornMeat)
	s = b.MoveFilling(s, 1, DirectionUp)
	require.Equal(t, []string{"Unicorn fillet", "Dragon scale sauce"}, names(s))

	sauceID := s.Fillings[1].InstanceID
	s = b.RemoveFilling(s, sauceID)
	require.Equal(t, []string{"Unicorn fillet"}, names(s))

	s = b.Apply(s, Clear{})
	assert.Empty(t, s.Fillings)
	assert.Nil(t, s.Frame)
}
