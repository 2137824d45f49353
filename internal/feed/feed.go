// Package feed caches the most recent snapshot of historical orders.
package feed

import (
	"context"

	"orderbuilder/internal/fetch"
	"orderbuilder/internal/models"
)

// Source fetches the order feed.
type Source interface {
	FetchFeed(ctx context.Context) (models.FeedSnapshot, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (models.FeedSnapshot, error)

// FetchFeed implements Source.
func (f SourceFunc) FetchFeed(ctx context.Context) (models.FeedSnapshot, error) {
	return f(ctx)
}

// State is the feed slice. Items is nil until the first successful load.
type State struct {
	Items   *models.FeedSnapshot `json:"items"`
	Loading bool                 `json:"loading"`
	Error   *models.FetchError   `json:"error"`
}

// InitialState returns the feed slice before any fetch.
func InitialState() State {
	return State{}
}

// Reduce folds one fetch lifecycle step into the state. A failed fetch keeps
// the previous snapshot.
func Reduce(s State, r fetch.Result[models.FeedSnapshot]) State {
	switch r.Phase {
	case fetch.PhasePending:
		s.Loading = true
	case fetch.PhaseSucceeded:
		snapshot := r.Payload
		if snapshot.Orders == nil {
			snapshot.Orders = []models.FeedOrder{}
		}
		s.Items = &snapshot
		s.Loading = false
		s.Error = nil
	case fetch.PhaseFailed:
		s.Loading = false
		s.Error = r.Err
	}
	return s
}

// Replace installs a snapshot pushed by a live subscription. It is the
// Succeeded step without a preceding Pending.
func Replace(s State, snapshot models.FeedSnapshot) State {
	return Reduce(s, fetch.Succeeded(snapshot))
}
