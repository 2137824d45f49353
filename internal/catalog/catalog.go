// Package catalog caches the result of a catalog fetch and keeps the items
// partitioned by category.
package catalog

import (
	"context"

	"orderbuilder/internal/fetch"
	"orderbuilder/internal/models"
)

// Source fetches the catalog. No ordering of categories is guaranteed.
type Source interface {
	FetchCatalog(ctx context.Context) ([]models.CatalogItem, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.CatalogItem, error)

// FetchCatalog implements Source.
func (f SourceFunc) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	return f(ctx)
}

// State is the catalog slice. Frames, FillingSolids and FillingSauces are
// re-derived from Items whenever Items changes.
type State struct {
	Items         []models.CatalogItem `json:"items"`
	Frames        []models.CatalogItem `json:"buns"`
	FillingSolids []models.CatalogItem `json:"mains"`
	FillingSauces []models.CatalogItem `json:"sauces"`
	IsLoading     bool                 `json:"isLoading"`
	Error         *models.FetchError   `json:"error"`
}

// InitialState returns the catalog slice before the first load completes.
func InitialState() State {
	return State{
		Items:         []models.CatalogItem{},
		Frames:        []models.CatalogItem{},
		FillingSolids: []models.CatalogItem{},
		FillingSauces: []models.CatalogItem{},
		IsLoading:     true,
	}
}

// Reduce folds one fetch lifecycle step into the state.
//
// Pending clears the error and keeps previously loaded items. Succeeded
// replaces the items. Failed records the message and keeps whatever was loaded
// before.
func Reduce(s State, r fetch.Result[[]models.CatalogItem]) State {
	switch r.Phase {
	case fetch.PhasePending:
		s.IsLoading = true
		s.Error = nil
	case fetch.PhaseSucceeded:
		s = withItems(r.Payload)
		s.IsLoading = false
		s.Error = nil
	case fetch.PhaseFailed:
		s.IsLoading = false
		s.Error = r.Err
	}
	return s
}

// Partition splits items by category keeping their relative order.
func Partition(items []models.CatalogItem) (frames, solids, sauces []models.CatalogItem) {
	frames = []models.CatalogItem{}
	solids = []models.CatalogItem{}
	sauces = []models.CatalogItem{}
	for _, item := range items {
		switch item.Category {
		case models.CategoryFrame:
			frames = append(frames, item)
		case models.CategoryFillingSolid:
			solids = append(solids, item)
		case models.CategoryFillingSauce:
			sauces = append(sauces, item)
		}
	}
	return frames, solids, sauces
}

// withItems builds a state holding the known-category items of payload.
// Items outside the closed category set are dropped so the three subsets
// always partition Items exactly.
func withItems(payload []models.CatalogItem) State {
	items := make([]models.CatalogItem, 0, len(payload))
	for _, item := range payload {
		if item.Category.Valid() {
			items = append(items, item)
		}
	}
	frames, solids, sauces := Partition(items)
	return State{
		Items:         items,
		Frames:        frames,
		FillingSolids: solids,
		FillingSauces: sauces,
	}
}

// Unknown returns the ids of items whose category is outside the closed set.
// Reduce drops those items.
func Unknown(items []models.CatalogItem) []string {
	var ids []string
	for _, item := range items {
		if !item.Category.Valid() {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Find returns the item with the given catalog id.
func (s State) Find(id string) (models.CatalogItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}
