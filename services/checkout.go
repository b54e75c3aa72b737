package services

import (
	"fmt"
	"strings"

	"donlouis-backend/models"

	"github.com/google/uuid"
)

type LineRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes"`
}

// CheckoutRequest is what the client submits; prices always come from the
// live catalog.
type CheckoutRequest struct {
	CustomerName string           `json:"customer_name"`
	Phone        string           `json:"phone"`
	OrderType    models.OrderType `json:"order_type"`
	ZoneID       string           `json:"zone_id"`
	Address      string           `json:"address"`
	Tip          float64          `json:"tip"`
	Items        []LineRequest    `json:"items"`
}

func (r CheckoutRequest) MenuItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, l := range r.Items {
		ids = append(ids, l.MenuItemID)
	}
	return ids
}

// BuildCart rebuilds the cart from catalog rows. Unknown or unavailable items
// fail the whole cart.
func BuildCart(catalog []models.MenuItem, lines []LineRequest) (*Cart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	byID := make(map[uuid.UUID]models.MenuItem, len(catalog))
	for _, it := range catalog {
		byID[it.ID] = it
	}

	cart := NewCart()
	for _, l := range lines {
		item, ok := byID[l.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, l.MenuItemID)
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		cart.Add(item, l.Quantity, strings.TrimSpace(l.Notes))
	}
	return cart, nil
}

// ResolveZone returns nil for pickup and for delivery without a selection;
// Price turns the latter into ErrZoneRequired.
func ResolveZone(orderType models.OrderType, zoneID string) (*models.DeliveryZone, error) {
	if orderType != models.OrderDelivery || strings.TrimSpace(zoneID) == "" {
		return nil, nil
	}
	zone, ok := models.FindZone(zoneID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, zoneID)
	}
	return &zone, nil
}

// PricingFor assembles the engine input. Tips only apply to delivery.
func PricingFor(req CheckoutRequest, cart *Cart, reward *models.RewardGrant) (PricingInput, error) {
	if !req.OrderType.Valid() {
		return PricingInput{}, ErrInvalidOrderType
	}
	zone, err := ResolveZone(req.OrderType, req.ZoneID)
	if err != nil {
		return PricingInput{}, err
	}
	tip := req.Tip
	if req.OrderType != models.OrderDelivery {
		tip = 0
	}
	return PricingInput{
		Subtotal:  cart.Subtotal(),
		OrderType: req.OrderType,
		Zone:      zone,
		Reward:    reward,
		Lines:     cart.Lines(),
		Tip:       tip,
	}, nil
}

// DeliveryAddress is stored as "[Zone] street details" so the kitchen sees the
// area at a glance.
func DeliveryAddress(zone *models.DeliveryZone, address string) *string {
	if zone == nil {
		return nil
	}
	s := fmt.Sprintf("[%s] %s", zone.Name, strings.TrimSpace(address))
	return &s
}

// ValidateCheckout runs the checks that must pass before anything is written.
func ValidateCheckout(req CheckoutRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("%w: name and phone are required", ErrMissingCustomer)
	}
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if !req.OrderType.Valid() {
		return ErrInvalidOrderType
	}
	if req.OrderType == models.OrderDelivery {
		if strings.TrimSpace(req.ZoneID) == "" {
			return ErrZoneRequired
		}
		if strings.TrimSpace(req.Address) == "" {
			return ErrAddressRequired
		}
	}
	if req.Tip < 0 {
		return fmt.Errorf("%w: tip cannot be negative", ErrInvalidTip)
	}
	return nil
}

// ApplyCheckout credits points and consumes the reward on the profile
// according to q. The name given at checkout replaces the stored one.
func ApplyCheckout(p *models.Profile, req CheckoutRequest, q Quote) {
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		p.FullName = name
	}
	p.Points += q.PointsEarned
	if q.ConsumeReward {
		p.ActiveReward = nil
	}
}

// NewOrder builds the order row and its item snapshots.
func NewOrder(req CheckoutRequest, phone string, cart *Cart, zone *models.DeliveryZone, q Quote) models.Order {
	o := models.Order{
		ID:              uuid.New(),
		ProfilePhone:    phone,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerAddress: DeliveryAddress(zone, req.Address),
		OrderType:       req.OrderType,
		Status:          models.StatusNew,
		Subtotal:        RoundCents(q.Subtotal),
		Discount:        RoundCents(q.Discount),
		DeliveryFee:     RoundCents(q.DeliveryFee),
		TipAmount:       RoundCents(q.Tip),
		TotalAmount:     RoundCents(q.Total),
	}
	if q.RewardApplied != nil && q.ConsumeReward {
		o.RewardLabel = q.RewardApplied.Label
	}
	o.Items = cart.Snapshots(o.ID)
	return o
}
