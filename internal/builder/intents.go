package builder

import (
	"reflect"

	"orderbuilder/internal/models"
)

// Direction is the direction of a filling move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Intent is a builder state transition dispatched by the presentation layer.
type Intent interface {
	// Kind names the intent for logging and metrics.
	Kind() string
	reduce(s State, ids IDGenerator) State
}

// SetFrame replaces any existing frame with Item.
type SetFrame struct {
	Item models.CatalogItem
}

// AddFilling appends Item to the filling list under a fresh instance id.
type AddFilling struct {
	Item Item
}

// RemoveFilling removes the filling carrying InstanceID. Unknown ids are ignored.
type RemoveFilling struct {
	InstanceID string
}

// MoveFilling swaps the filling at Index with its neighbour in Direction.
// Moves whose target falls outside the list are ignored.
type MoveFilling struct {
	Index     int
	Direction Direction
}

// Clear resets the builder to its initial state.
type Clear struct{}

func (SetFrame) Kind() string      { return "set_frame" }
func (AddFilling) Kind() string    { return "add_filling" }
func (RemoveFilling) Kind() string { return "remove_filling" }
func (MoveFilling) Kind() string   { return "move_filling" }
func (Clear) Kind() string         { return "clear" }

func (in SetFrame) reduce(s State, _ IDGenerator) State {
	frame := in.Item
	return State{Frame: &frame, Fillings: s.Fillings}
}

func (in AddFilling) reduce(s State, ids IDGenerator) State {
	if isNil(in.Item) {
		return s
	}
	entry := FillingEntry{
		CatalogItem: in.Item.Catalog(),
		InstanceID:  ids(),
	}
	fillings := make([]FillingEntry, 0, len(s.Fillings)+1)
	fillings = append(fillings, s.Fillings...)
	fillings = append(fillings, entry)
	return s.withFillings(fillings)
}

func (in RemoveFilling) reduce(s State, _ IDGenerator) State {
	idx := s.IndexOf(in.InstanceID)
	if idx < 0 {
		return s
	}
	fillings := make([]FillingEntry, 0, len(s.Fillings)-1)
	fillings = append(fillings, s.Fillings[:idx]...)
	fillings = append(fillings, s.Fillings[idx+1:]...)
	return s.withFillings(fillings)
}

func (in MoveFilling) reduce(s State, _ IDGenerator) State {
	var target int
	switch in.Direction {
	case DirectionUp:
		target = in.Index - 1
	case DirectionDown:
		target = in.Index + 1
	default:
		return s
	}
	n := len(s.Fillings)
	if in.Index < 0 || in.Index >= n || target < 0 || target >= n {
		return s
	}
	fillings := s.CurrentFillings()
	fillings[in.Index], fillings[target] = fillings[target], fillings[in.Index]
	return s.withFillings(fillings)
}

func (Clear) reduce(State, IDGenerator) State {
	return EmptyState()
}

// isNil reports whether item is nil, including a nil pointer held in the
// interface.
func isNil(item Item) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
