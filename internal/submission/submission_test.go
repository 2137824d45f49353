package submission

import (
	"errors"
	"testing"

	"orderbuilder/internal/fetch"
	"orderbuilder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLifecycle(t *testing.T) {
	s := Reduce(InitialState(), fetch.Pending[models.OrderConfirmation]())
	assert.True(t, s.Requesting)
	assert.Nil(t, s.Confirmation)

	s = Reduce(s, fetch.Succeeded(models.OrderConfirmation{Name: "Space burger", Number: 7}))
	assert.False(t, s.Requesting)
	require.NotNil(t, s.Confirmation)
	assert.Equal(t, 7, s.Confirmation.Number)
	assert.Nil(t, s.Error)

	s = ResetConfirmation(s)
	assert.Nil(t, s.Confirmation)
}

func TestSubmissionFailure(t *testing.T) {
	s := Reduce(InitialState(), fetch.Pending[models.OrderConfirmation]())
	s = Reduce(s, fetch.Failed[models.OrderConfirmation](errors.New("kitchen closed")))

	assert.False(t, s.Requesting)
	assert.Nil(t, s.Confirmation)
	require.NotNil(t, s.Error)
	assert.Equal(t, "kitchen closed", s.Error.Message)

	retry := Reduce(s, fetch.Pending[models.OrderConfirmation]())
	assert.Nil(t, retry.Error)
}
