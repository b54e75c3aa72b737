package services

import (
	"fmt"

	"donlouis-backend/models"
)

var statusLabels = map[models.OrderStatus]string{
	models.StatusNew:            "Order Placed",
	models.StatusPreparing:      "Kitchen Preparing",
	models.StatusReady:          "Ready for Pickup",
	models.StatusOutForDelivery: "Out for Delivery",
	models.StatusCompleted:      "Enjoy your meal!",
	models.StatusCancelled:      "Order Cancelled",
}

// ActiveStatuses are the non-terminal states, in progression order.
var ActiveStatuses = []models.OrderStatus{
	models.StatusNew,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusOutForDelivery,
}

func StatusLabel(s models.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func KnownStatus(s models.OrderStatus) bool {
	_, ok := statusLabels[s]
	return ok
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusCompleted || s == models.StatusCancelled
}

// NextStatuses lists the legal targets from s for an order of type t.
func NextStatuses(s models.OrderStatus, t models.OrderType) []models.OrderStatus {
	switch s {
	case models.StatusNew:
		return []models.OrderStatus{models.StatusPreparing, models.StatusCancelled}
	case models.StatusPreparing:
		return []models.OrderStatus{models.StatusReady, models.StatusCancelled}
	case models.StatusReady:
		if t == models.OrderDelivery {
			return []models.OrderStatus{models.StatusOutForDelivery, models.StatusCancelled}
		}
		return []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}
	case models.StatusOutForDelivery:
		return []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}
	}
	return nil
}

func CanTransition(from, to models.OrderStatus, t models.OrderType) bool {
	for _, s := range NextStatuses(from, t) {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the order to status to, or leaves it untouched and
// returns ErrInvalidTransition.
func Transition(o *models.Order, to models.OrderStatus) (models.OrderStatus, error) {
	if !KnownStatus(to) {
		return o.Status, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	from := o.Status
	if !CanTransition(from, to, o.OrderType) {
		return from, fmt.Errorf("%w: %s -> %s for %s order", ErrInvalidTransition, from, to, o.OrderType)
	}
	o.Status = to
	return from, nil
}
