// Package submission tracks the order submission request and its confirmation.
package submission

import (
	"context"

	"orderbuilder/internal/fetch"
	"orderbuilder/internal/models"
)

// Submitter sends the catalog ids of an order and returns its confirmation.
type Submitter interface {
	SubmitOrder(ctx context.Context, ingredientIDs []string) (models.OrderConfirmation, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, ingredientIDs []string) (models.OrderConfirmation, error)

// SubmitOrder implements Submitter.
func (f SubmitterFunc) SubmitOrder(ctx context.Context, ingredientIDs []string) (models.OrderConfirmation, error) {
	return f(ctx, ingredientIDs)
}

// State is the submission slice.
type State struct {
	Requesting   bool                      `json:"orderRequest"`
	Confirmation *models.OrderConfirmation `json:"orderModalData"`
	Error        *models.FetchError        `json:"error"`
}

// InitialState returns the idle submission slice.
func InitialState() State {
	return State{}
}

// Reduce folds one submission lifecycle step into the state.
func Reduce(s State, r fetch.Result[models.OrderConfirmation]) State {
	switch r.Phase {
	case fetch.PhasePending:
		s.Requesting = true
		s.Confirmation = nil
		s.Error = nil
	case fetch.PhaseSucceeded:
		confirmation := r.Payload
		s.Requesting = false
		s.Confirmation = &confirmation
		s.Error = nil
	case fetch.PhaseFailed:
		s.Requesting = false
		s.Error = r.Err
	}
	return s
}

// ResetConfirmation drops the last confirmation once it has been shown.
func ResetConfirmation(s State) State {
	s.Confirmation = nil
	return s
}
