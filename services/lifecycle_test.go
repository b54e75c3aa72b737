package services

import (
	"testing"

	"donlouis-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []models.OrderStatus{
	models.StatusNew,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusOutForDelivery,
	models.StatusCompleted,
	models.StatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	allowed := map[models.OrderType]map[models.OrderStatus][]models.OrderStatus{
		models.OrderDelivery: {
			models.StatusNew:            {models.StatusPreparing, models.StatusCancelled},
			models.StatusPreparing:      {models.StatusReady, models.StatusCancelled},
			models.StatusReady:          {models.StatusOutForDelivery, models.StatusCancelled},
			models.StatusOutForDelivery: {models.StatusCompleted, models.StatusCancelled},
		},
		models.OrderPickup: {
			models.StatusNew:            {models.StatusPreparing, models.StatusCancelled},
			models.StatusPreparing:      {models.StatusReady, models.StatusCancelled},
			models.StatusReady:          {models.StatusCompleted, models.StatusCancelled},
			models.StatusOutForDelivery: {models.StatusCompleted, models.StatusCancelled},
		},
	}

	for orderType, table := range allowed {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				want := false
				for _, s := range table[from] {
					if s == to {
						want = true
					}
				}
				assert.Equal(t, want, CanTransition(from, to, orderType), "%s: %s -> %s", orderType, from, to)
			}
		}
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	o := &models.Order{OrderType: models.OrderDelivery, Status: models.StatusNew}

	_, err := Transition(o, models.StatusReady)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusNew, o.Status)

	_, err = Transition(o, "eaten")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	for _, to := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusOutForDelivery, models.StatusCompleted} {
		from, err := Transition(o, to)
		require.NoError(t, err)
		assert.NotEqual(t, from, to)
	}

	for _, to := range allStatuses {
		_, err := Transition(o, to)
		assert.ErrorIs(t, err, ErrInvalidTransition, "nothing leaves completed")
	}
}

func TestPickupSkipsDelivery(t *testing.T) {
	o := &models.Order{OrderType: models.OrderPickup, Status: models.StatusReady}
	_, err := Transition(o, models.StatusOutForDelivery)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(o, models.StatusCompleted)
	assert.NoError(t, err)
}

func TestCancelFromAnyActiveState(t *testing.T) {
	for _, s := range ActiveStatuses {
		o := &models.Order{OrderType: models.OrderDelivery, Status: s}
		_, err := Transition(o, models.StatusCancelled)
		assert.NoError(t, err, "from %s", s)
		assert.True(t, IsTerminal(o.Status))
		assert.Empty(t, NextStatuses(o.Status, o.OrderType))
	}
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Order Placed", StatusLabel(models.StatusNew))
	assert.Equal(t, "Kitchen Preparing", StatusLabel(models.StatusPreparing))
	assert.Equal(t, "Ready for Pickup", StatusLabel(models.StatusReady))
	assert.Equal(t, "Out for Delivery", StatusLabel(models.StatusOutForDelivery))
	assert.Equal(t, "Enjoy your meal!", StatusLabel(models.StatusCompleted))
	assert.Equal(t, "weird", StatusLabel("weird"))
}
