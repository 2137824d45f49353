// Package store owns the aggregate application state and serialises every
// transition through its reducers.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"orderbuilder/internal/builder"
	"orderbuilder/internal/catalog"
	"orderbuilder/internal/feed"
	"orderbuilder/internal/fetch"
	"orderbuilder/internal/logging"
	"orderbuilder/internal/models"
	"orderbuilder/internal/monitoring"
	"orderbuilder/internal/selectors"
	"orderbuilder/internal/submission"
)

// ErrIncompleteOrder is returned when an order is submitted without a frame
// or without any filling.
var ErrIncompleteOrder = errors.New("order needs a frame and at least one filling")

// Listener is notified with the new state after every transition. Listeners
// are called in transition order and must not dispatch synchronously.
type Listener func(selectors.AppState)

// Store holds the current AppState.
type Store struct {
	notifyMu  sync.Mutex
	mu        sync.RWMutex
	state     selectors.AppState
	builder   *builder.Builder
	logger    *zap.Logger
	metrics   *monitoring.Collector
	listeners map[int]Listener
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fetch failures and dispatch tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logging.OrNop(logger)
	}
}

// WithMetrics records dispatches and fetches into c.
func WithMetrics(c *monitoring.Collector) Option {
	return func(s *Store) {
		s.metrics = c
	}
}

// WithBuilder replaces the default builder.
func WithBuilder(b *builder.Builder) Option {
	return func(s *Store) {
		if b != nil {
			s.builder = b
		}
	}
}

// New creates a store in the initial state.
func New(opts ...Option) *Store {
	s := &Store{
		state:     selectors.InitialAppState(),
		builder:   builder.New(),
		logger:    zap.NewNop(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() selectors.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// update applies fn under the write lock and notifies listeners afterwards.
// notifyMu is held across both so listeners see states in the order they
// were produced.
func (s *Store) update(slice, action string, fn func(selectors.AppState) selectors.AppState) selectors.AppState {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.metrics.RecordDispatch(slice, action)
	if slice == "builder" {
		s.metrics.SetFillings(next.Builder.TotalFillingCount())
	}
	s.logger.Debug("dispatch", zap.String("slice", slice), zap.String("action", action))

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Dispatch applies a builder intent.
func (s *Store) Dispatch(in builder.Intent) selectors.AppState {
	if in == nil {
		return s.State()
	}
	return s.update("builder", in.Kind(), func(st selectors.AppState) selectors.AppState {
		st.Builder = s.builder.Apply(st.Builder, in)
		return st
	})
}

func (s *Store) SetFrame(item models.CatalogItem) selectors.AppState {
	return s.Dispatch(builder.SetFrame{Item: item})
}

func (s *Store) AddFilling(item builder.Item) selectors.AppState {
	return s.Dispatch(builder.AddFilling{Item: item})
}

func (s *Store) RemoveFilling(instanceID string) selectors.AppState {
	return s.Dispatch(builder.RemoveFilling{InstanceID: instanceID})
}

func (s *Store) MoveFilling(index int, dir builder.Direction) selectors.AppState {
	return s.Dispatch(builder.MoveFilling{Index: index, Direction: dir})
}

func (s *Store) ClearBuilder() selectors.AppState {
	return s.Dispatch(builder.Clear{})
}

// LoadCatalog fetches the catalog from src. Failures are captured in the
// catalog slice and logged; they are not returned.
func (s *Store) LoadCatalog(ctx context.Context, src catalog.Source) {
	start := time.Now()
	err := fetch.Run(ctx, src.FetchCatalog, func(r fetch.Result[[]models.CatalogItem]) {
		if r.Phase == fetch.PhaseSucceeded {
			if dropped := catalog.Unknown(r.Payload); len(dropped) > 0 {
				s.logger.Warn("catalog items with unknown category dropped",
					zap.Strings("ids", dropped))
			}
		}
		s.update("catalog", r.Phase.String(), func(st selectors.AppState) selectors.AppState {
			st.Catalog = catalog.Reduce(st.Catalog, r)
			return st
		})
	})
	s.finishFetch("catalog", start, err)
}

// LoadFeed fetches the feed snapshot from src. Failures are captured in the
// feed slice and logged; they are not returned.
func (s *Store) LoadFeed(ctx context.Context, src feed.Source) {
	start := time.Now()
	err := fetch.Run(ctx, src.FetchFeed, func(r fetch.Result[models.FeedSnapshot]) {
		s.update("feed", r.Phase.String(), func(st selectors.AppState) selectors.AppState {
			st.Feed = feed.Reduce(st.Feed, r)
			return st
		})
	})
	s.finishFetch("feed", start, err)
}

// ApplyFeedSnapshot installs a snapshot pushed by a live subscription.
func (s *Store) ApplyFeedSnapshot(snapshot models.FeedSnapshot) selectors.AppState {
	return s.update("feed", "replace", func(st selectors.AppState) selectors.AppState {
		st.Feed = feed.Replace(st.Feed, snapshot)
		return st
	})
}

// SubmitOrder sends the current builder payload through sub. On success the
// builder is cleared and the confirmation is kept in the submission slice.
func (s *Store) SubmitOrder(ctx context.Context, sub submission.Submitter) (models.OrderConfirmation, error) {
	current := s.State().Builder
	if current.Frame == nil || current.TotalFillingCount() == 0 {
		return models.OrderConfirmation{}, ErrIncompleteOrder
	}
	payload := builder.Payload(current)

	var confirmation models.OrderConfirmation
	start := time.Now()
	err := fetch.Run(ctx, func(ctx context.Context) (models.OrderConfirmation, error) {
		return sub.SubmitOrder(ctx, payload)
	}, func(r fetch.Result[models.OrderConfirmation]) {
		if r.Phase == fetch.PhaseSucceeded {
			confirmation = r.Payload
		}
		s.update("submission", r.Phase.String(), func(st selectors.AppState) selectors.AppState {
			st.Submission = submission.Reduce(st.Submission, r)
			return st
		})
	})
	s.finishFetch("submission", start, err)
	if err != nil {
		return models.OrderConfirmation{}, err
	}

	s.metrics.RecordSubmission()
	s.logger.Info("order submitted",
		zap.Int("number", confirmation.Number),
		zap.String("name", confirmation.Name),
		zap.Int("ingredients", len(payload)))
	s.ClearBuilder()
	return confirmation, nil
}

// ResetConfirmation drops the last order confirmation.
func (s *Store) ResetConfirmation() selectors.AppState {
	return s.update("submission", "reset", func(st selectors.AppState) selectors.AppState {
		st.Submission = submission.ResetConfirmation(st.Submission)
		return st
	})
}

func (s *Store) finishFetch(slice string, start time.Time, err error) {
	outcome := fetch.PhaseSucceeded.String()
	if err != nil {
		outcome = fetch.PhaseFailed.String()
		s.logger.Warn("fetch failed", zap.String("slice", slice), zap.Error(err))
	}
	s.metrics.RecordFetch(slice, outcome, time.Since(start))
}
