// Package selectors derives read views from the aggregate application state.
// Every selector is a pure function; nothing is cached.
package selectors

import (
	"orderbuilder/internal/builder"
	"orderbuilder/internal/catalog"
	"orderbuilder/internal/feed"
	"orderbuilder/internal/models"
	"orderbuilder/internal/submission"
)

// FramePortions is how many times the frame is counted in an order: it is
// placed at both ends.
const FramePortions = 2

// AppState aggregates the independent slices.
type AppState struct {
	Builder    builder.State    `json:"builder"`
	Catalog    catalog.State    `json:"ingredients"`
	Feed       feed.State       `json:"feed"`
	Submission submission.State `json:"order"`
}

// InitialAppState returns every slice in its initial state.
func InitialAppState() AppState {
	return AppState{
		Builder:    builder.EmptyState(),
		Catalog:    catalog.InitialState(),
		Feed:       feed.InitialState(),
		Submission: submission.InitialState(),
	}
}

// Builder views

func BuilderItems(s AppState) builder.State {
	return s.Builder
}

func Frame(s AppState) *models.CatalogItem {
	return s.Builder.CurrentFrame()
}

func Fillings(s AppState) []builder.FillingEntry {
	return s.Builder.CurrentFillings()
}

func TotalFillingCount(s AppState) int {
	return s.Builder.TotalFillingCount()
}

// OrderPrice is the frame price counted at both ends plus every filling.
func OrderPrice(s AppState) int {
	total := 0
	if s.Builder.Frame != nil {
		total += FramePortions * s.Builder.Frame.Price
	}
	for _, entry := range s.Builder.Fillings {
		total += entry.Price
	}
	return total
}

// ItemCounts maps catalog ids to the number of placements in the builder.
func ItemCounts(s AppState) map[string]int {
	counts := make(map[string]int, len(s.Builder.Fillings)+1)
	if s.Builder.Frame != nil {
		counts[s.Builder.Frame.ID] = FramePortions
	}
	for _, entry := range s.Builder.Fillings {
		counts[entry.ID]++
	}
	return counts
}

// CanSubmit reports whether the builder holds a frame and at least one filling
// and no submission is in flight.
func CanSubmit(s AppState) bool {
	return s.Builder.Frame != nil && len(s.Builder.Fillings) > 0 && !s.Submission.Requesting
}

// Catalog views

func CatalogItems(s AppState) []models.CatalogItem {
	return s.Catalog.Items
}

func Frames(s AppState) []models.CatalogItem {
	return s.Catalog.Frames
}

func FillingSolids(s AppState) []models.CatalogItem {
	return s.Catalog.FillingSolids
}

func FillingSauces(s AppState) []models.CatalogItem {
	return s.Catalog.FillingSauces
}

func CatalogLoading(s AppState) bool {
	return s.Catalog.IsLoading
}

func CatalogError(s AppState) *models.FetchError {
	return s.Catalog.Error
}

// CatalogItemByID looks an item up in the loaded catalog.
func CatalogItemByID(s AppState, id string) (models.CatalogItem, bool) {
	return s.Catalog.Find(id)
}

// Feed views

func FeedSnapshot(s AppState) *models.FeedSnapshot {
	return s.Feed.Items
}

func FeedLoading(s AppState) bool {
	return s.Feed.Loading
}

func FeedError(s AppState) *models.FetchError {
	return s.Feed.Error
}

// Orders flattens the feed; it is empty, never nil, before the first load.
func Orders(s AppState) []models.FeedOrder {
	if s.Feed.Items == nil || s.Feed.Items.Orders == nil {
		return []models.FeedOrder{}
	}
	return s.Feed.Items.Orders
}

// OrderByNumber finds a loaded feed order by its display number.
func OrderByNumber(s AppState, number int) (models.FeedOrder, bool) {
	for _, order := range Orders(s) {
		if order.Number == number {
			return order, true
		}
	}
	return models.FeedOrder{}, false
}

// ResolveOrderItems maps the ingredient ids of order onto loaded catalog
// items. Ids missing from the catalog are skipped.
func ResolveOrderItems(s AppState, order models.FeedOrder) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(order.Ingredients))
	for _, id := range order.Ingredients {
		if item, ok := s.Catalog.Find(id); ok {
			items = append(items, item)
		}
	}
	return items
}

// Submission views

func SubmissionRequesting(s AppState) bool {
	return s.Submission.Requesting
}

func Confirmation(s AppState) *models.OrderConfirmation {
	return s.Submission.Confirmation
}
