package services

import (
	"testing"

	"donlouis-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest(items ...LineRequest) CheckoutRequest {
	return CheckoutRequest{
		CustomerName: "Rami",
		Phone:        "70123456",
		OrderType:    models.OrderDelivery,
		ZoneID:       "zone_kaslik",
		Address:      "Main road, bldg 4",
		Tip:          1,
		Items:        items,
	}
}

func TestValidateCheckout(t *testing.T) {
	line := LineRequest{MenuItemID: uuid.New(), Quantity: 1}

	assert.NoError(t, ValidateCheckout(validRequest(line)))

	req := validRequest(line)
	req.CustomerName = " "
	assert.ErrorIs(t, ValidateCheckout(req), ErrMissingCustomer)

	req = validRequest()
	assert.ErrorIs(t, ValidateCheckout(req), ErrEmptyCart)

	req = validRequest(line)
	req.OrderType = "dine_in"
	assert.ErrorIs(t, ValidateCheckout(req), ErrInvalidOrderType)

	req = validRequest(line)
	req.ZoneID = ""
	assert.ErrorIs(t, ValidateCheckout(req), ErrZoneRequired)

	req = validRequest(line)
	req.Address = ""
	assert.ErrorIs(t, ValidateCheckout(req), ErrAddressRequired)

	req = validRequest(line)
	req.Tip = -2
	assert.ErrorIs(t, ValidateCheckout(req), ErrInvalidTip)

	req = validRequest(line)
	req.OrderType = models.OrderPickup
	req.ZoneID, req.Address = "", ""
	assert.NoError(t, ValidateCheckout(req))
}

func TestBuildCartUsesCatalogPrices(t *testing.T) {
	fries := menuItem("Fries", 2.5)
	burger := menuItem("Beef Burger", 5.5)
	off := menuItem("Beer", 2)
	off.IsAvailable = false
	catalog := []models.MenuItem{fries, burger, off}

	cart, err := BuildCart(catalog, []LineRequest{
		{MenuItemID: fries.ID, Quantity: 2, Notes: "  crispy "},
		{MenuItemID: burger.ID, Quantity: 1},
		{MenuItemID: fries.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 3*2.5+5.5, cart.Subtotal(), 1e-9)
	assert.Equal(t, "crispy", cart.Lines()[0].Notes)

	_, err = BuildCart(catalog, []LineRequest{{MenuItemID: off.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	_, err = BuildCart(catalog, []LineRequest{{MenuItemID: uuid.New(), Quantity: 1}})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	_, err = BuildCart(catalog, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestResolveZone(t *testing.T) {
	z, err := ResolveZone(models.OrderPickup, "zone_kaslik")
	assert.NoError(t, err)
	assert.Nil(t, z)

	z, err = ResolveZone(models.OrderDelivery, "zone_kaslik")
	require.NoError(t, err)
	assert.Equal(t, 3.0, z.Fee)

	_, err = ResolveZone(models.OrderDelivery, "zone_mars")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestPricingForDropsPickupTip(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem("Fries", 2.5), 4, "")

	req := validRequest()
	req.OrderType = models.OrderPickup
	req.Tip = 3
	in, err := PricingFor(req, cart, nil)
	require.NoError(t, err)
	assert.Zero(t, in.Tip)
	assert.Nil(t, in.Zone)
	assert.InDelta(t, 10.0, in.Subtotal, 1e-9)

	req = validRequest()
	in, err = PricingFor(req, cart, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, in.Tip)
	require.NotNil(t, in.Zone)
}

func TestCheckoutConsumesRewardAndCreditsPoints(t *testing.T) {
	fries := menuItem("Fries", 2.5)
	cart := NewCart()
	cart.Add(fries, 8, "")

	profile := &models.Profile{
		Phone:        "70123456",
		Points:       10,
		ActiveReward: &models.RewardGrant{Type: models.GrantDiscountPercent, Value: 15, Label: "15% Discount"},
	}
	req := validRequest(LineRequest{MenuItemID: fries.ID, Quantity: 8})

	in, err := PricingFor(req, cart, profile.ActiveReward)
	require.NoError(t, err)
	q, err := Price(in)
	require.NoError(t, err)
	assert.InDelta(t, 21.0, q.Total, 1e-9)

	order := NewOrder(req, profile.Phone, cart, in.Zone, q)
	ApplyCheckout(profile, req, q)

	assert.Equal(t, 30, profile.Points)
	assert.Nil(t, profile.ActiveReward)

	assert.Equal(t, models.StatusNew, order.Status)
	assert.Equal(t, "15% Discount", order.RewardLabel)
	assert.Equal(t, 3.0, order.Discount)
	assert.Equal(t, 21.0, order.TotalAmount)
	require.NotNil(t, order.CustomerAddress)
	assert.Equal(t, "[Kaslik] Main road, bldg 4", *order.CustomerAddress)
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
}

func TestCheckoutKeepsUnusedFreeDelivery(t *testing.T) {
	fries := menuItem("Fries", 2.5)
	cart := NewCart()
	cart.Add(fries, 8, "")

	kept := &models.RewardGrant{Type: models.GrantFreeDelivery, Label: "Free Delivery"}
	profile := &models.Profile{Phone: "70123456", ActiveReward: kept}

	req := validRequest(LineRequest{MenuItemID: fries.ID, Quantity: 8})
	req.OrderType = models.OrderPickup
	in, err := PricingFor(req, cart, profile.ActiveReward)
	require.NoError(t, err)
	q, err := Price(in)
	require.NoError(t, err)

	order := NewOrder(req, profile.Phone, cart, in.Zone, q)
	ApplyCheckout(profile, req, q)

	assert.Same(t, kept, profile.ActiveReward)
	assert.Empty(t, order.RewardLabel)
	assert.Nil(t, order.CustomerAddress)
	assert.Equal(t, 20, profile.Points)
}

func TestCheckoutRefreshesProfileName(t *testing.T) {
	profile := &models.Profile{Phone: "70123456", FullName: "Old Name", Points: 4}

	req := validRequest()
	req.CustomerName = "  Rami Haddad "
	ApplyCheckout(profile, req, Quote{PointsEarned: 6})
	assert.Equal(t, "Rami Haddad", profile.FullName)
	assert.Equal(t, 10, profile.Points)

	req.CustomerName = "   "
	ApplyCheckout(profile, req, Quote{})
	assert.Equal(t, "Rami Haddad", profile.FullName)
}
