// Package builder holds the in-progress order: one optional frame and an
// ordered list of fillings. Every transition is a pure function from the
// previous state to a new one; previous states are never mutated.
package builder

import "orderbuilder/internal/models"

// Builder applies intents to builder states. It owns the identity allocator
// used when fillings are inserted.
type Builder struct {
	ids IDGenerator
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDGenerator overrides the instance identity allocator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *Builder) {
		if gen != nil {
			b.ids = gen
		}
	}
}

// New creates a Builder that allocates UUIDs unless configured otherwise.
func New(opts ...Option) *Builder {
	b := &Builder{ids: UUIDGenerator()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Apply returns the state produced by in. A nil intent leaves s unchanged.
func (b *Builder) Apply(s State, in Intent) State {
	if in == nil {
		return s
	}
	if s.Fillings == nil {
		s.Fillings = []FillingEntry{}
	}
	return in.reduce(s, b.ids)
}

// SetFrame replaces the frame.
func (b *Builder) SetFrame(s State, item models.CatalogItem) State {
	return b.Apply(s, SetFrame{Item: item})
}

// AddFilling appends item under a fresh instance id.
func (b *Builder) AddFilling(s State, item Item) State {
	return b.Apply(s, AddFilling{Item: item})
}

// RemoveFilling removes the filling with instanceID if present.
func (b *Builder) RemoveFilling(s State, instanceID string) State {
	return b.Apply(s, RemoveFilling{InstanceID: instanceID})
}

// MoveFilling swaps the filling at index with its neighbour.
func (b *Builder) MoveFilling(s State, index int, dir Direction) State {
	return b.Apply(s, MoveFilling{Index: index, Direction: dir})
}

// Clear resets to the empty state.
func (b *Builder) Clear(State) State {
	return EmptyState()
}
