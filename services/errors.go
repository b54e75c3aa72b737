package services

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingCustomer    = errors.New("missing customer details")
	ErrInvalidTip         = errors.New("invalid tip")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrItemUnavailable    = errors.New("menu item is not available")
	ErrInvalidOrderType   = errors.New("order type must be pickup or delivery")
	ErrZoneRequired       = errors.New("please select a delivery area to calculate the fee")
	ErrUnknownZone        = errors.New("unknown delivery area")
	ErrAddressRequired    = errors.New("delivery address is required")
	ErrStoreClosed        = errors.New("we are closed right now, please order during opening hours")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrAlreadySpun        = errors.New("you've already spun today, return tomorrow")
	ErrInvalidGrant       = errors.New("invalid reward definition")
	ErrNotRateable        = errors.New("only completed orders can be rated")

	ErrImageStoreDisabled = errors.New("image storage is not configured")
	ErrAIDisabled         = errors.New("AI helper is not configured")
	ErrNoImageReturned    = errors.New("the model did not return an image")
)
