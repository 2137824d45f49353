package builder

import "orderbuilder/internal/models"

// FillingEntry is a catalog item placed into the filling list. InstanceID is
// assigned once on insertion and distinguishes repeated placements of the
// same catalog item.
type FillingEntry struct {
	models.CatalogItem
	InstanceID string `json:"id"`
}

// Catalog strips the instance identity and returns the underlying catalog item.
func (e FillingEntry) Catalog() models.CatalogItem {
	return e.CatalogItem
}

// Item is anything that can be placed into the builder. Only the catalog
// fields are taken; any identity the value carries is discarded.
type Item interface {
	Catalog() models.CatalogItem
}

// State is the in-progress order: at most one frame and an ordered list of fillings.
type State struct {
	Frame    *models.CatalogItem `json:"bun"`
	Fillings []FillingEntry      `json:"ingredients"`
}

// EmptyState returns the initial builder state.
func EmptyState() State {
	return State{Fillings: []FillingEntry{}}
}

// CurrentFrame returns a copy of the frame, or nil when none is set.
func (s State) CurrentFrame() *models.CatalogItem {
	if s.Frame == nil {
		return nil
	}
	frame := *s.Frame
	return &frame
}

// CurrentFillings returns a copy of the filling list in order.
func (s State) CurrentFillings() []FillingEntry {
	fillings := make([]FillingEntry, len(s.Fillings))
	copy(fillings, s.Fillings)
	return fillings
}

// TotalFillingCount returns the number of fillings.
func (s State) TotalFillingCount() int {
	return len(s.Fillings)
}

// IsEmpty reports whether neither a frame nor fillings are present.
func (s State) IsEmpty() bool {
	return s.Frame == nil && len(s.Fillings) == 0
}

// IndexOf returns the position of the filling with the given instance id, or -1.
func (s State) IndexOf(instanceID string) int {
	for i, entry := range s.Fillings {
		if entry.InstanceID == instanceID {
			return i
		}
	}
	return -1
}

// Payload returns the catalog ids of the order for submission. Instance ids
// are stripped and the frame id is placed at both ends. An empty slice is
// returned when no frame is set.
func Payload(s State) []string {
	if s.Frame == nil {
		return []string{}
	}
	ids := make([]string, 0, len(s.Fillings)+2)
	ids = append(ids, s.Frame.ID)
	for _, entry := range s.Fillings {
		ids = append(ids, entry.ID)
	}
	return append(ids, s.Frame.ID)
}

func (s State) withFillings(fillings []FillingEntry) State {
	return State{Frame: s.Frame, Fillings: fillings}
}
