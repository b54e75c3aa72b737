package services

import (
	"testing"

	"donlouis-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zoneKaslik = &models.DeliveryZone{ID: "zone_kaslik", Name: "Kaslik", Fee: 3.00}

func grant(t models.GrantType, value float64, target string) *models.RewardGrant {
	return &models.RewardGrant{Type: t, Value: value, Label: "test", TargetItemName: target}
}

func TestPriceDiscountPercentDelivery(t *testing.T) {
	q, err := Price(PricingInput{
		Subtotal:  20,
		OrderType: models.OrderDelivery,
		Zone:      zoneKaslik,
		Reward:    grant(models.GrantDiscountPercent, 15, ""),
		Tip:       1,
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.00, q.Discount, 1e-9)
	assert.InDelta(t, 3.00, q.DeliveryFee, 1e-9)
	assert.InDelta(t, 21.00, q.Total, 1e-9)
	assert.True(t, q.ConsumeReward)
	assert.Equal(t, 20, q.PointsEarned)
}

func TestPriceFreeDeliveryOnPickupIsKept(t *testing.T) {
	q, err := Price(PricingInput{
		Subtotal:  20,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantFreeDelivery, 0, ""),
		Tip:       1,
	})
	require.NoError(t, err)

	assert.Zero(t, q.Discount)
	assert.Zero(t, q.DeliveryFee)
	assert.InDelta(t, 21.00, q.Total, 1e-9)
	assert.False(t, q.ConsumeReward)
}

func TestPriceFreeDeliveryOnDeliveryIsConsumed(t *testing.T) {
	for _, fee := range []float64{0, 1, 5} {
		q, err := Price(PricingInput{
			Subtotal:  12.5,
			OrderType: models.OrderDelivery,
			Zone:      &models.DeliveryZone{ID: "z", Fee: fee},
			Reward:    grant(models.GrantFreeDelivery, 0, ""),
		})
		require.NoError(t, err)
		assert.Zero(t, q.DeliveryFee)
		assert.InDelta(t, fee, q.ZoneFee, 1e-9)
		assert.InDelta(t, 12.5, q.Total, 1e-9)
		assert.True(t, q.ConsumeReward)
	}
}

func TestPriceDiscountPercentProperty(t *testing.T) {
	subtotals := []float64{0, 0.9, 7.5, 19.99, 100, 1234.56}
	values := []float64{5, 15, 25, 30, 50, 100}
	for _, s := range subtotals {
		for _, v := range values {
			q, err := Price(PricingInput{
				Subtotal:  s,
				OrderType: models.OrderDelivery,
				Zone:      zoneKaslik,
				Reward:    grant(models.GrantDiscountPercent, v, ""),
				Tip:       2,
			})
			require.NoError(t, err)
			want := s * v / 100
			assert.InDelta(t, want, q.Discount, 1e-9)
			wantTotal := s - want + 3 + 2
			if wantTotal < 0 {
				wantTotal = 0
			}
			assert.InDelta(t, wantTotal, q.Total, 1e-9)
		}
	}
}

func TestPriceFreeItem(t *testing.T) {
	lines := []CartLine{
		{MenuItemID: uuid.New(), Name: "Fries", Price: 2.50, Quantity: 1},
		{MenuItemID: uuid.New(), Name: "Beef Burger", Price: 5.50, Quantity: 3},
	}

	q, err := Price(PricingInput{
		Subtotal:  2.5 + 16.5,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantFreeItem, 0, "burger"),
		Lines:     lines,
	})
	require.NoError(t, err)
	assert.InDelta(t, 5.50, q.Discount, 1e-9, "one unit, not the whole line")
	assert.Empty(t, q.MissingRewardItem)
	assert.True(t, q.ConsumeReward)
	assert.InDelta(t, 13.50, q.Total, 1e-9)
}

func TestPriceFreeItemMissing(t *testing.T) {
	q, err := Price(PricingInput{
		Subtotal:  2.5,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantFreeItem, 0, "Kafta Sandwich"),
		Lines:     []CartLine{{MenuItemID: uuid.New(), Name: "Fries", Price: 2.5, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Zero(t, q.Discount)
	assert.Equal(t, "Kafta Sandwich", q.MissingRewardItem)
	assert.False(t, q.ConsumeReward)
}

func TestPriceFreeItemFirstMatchWins(t *testing.T) {
	lines := []CartLine{
		{MenuItemID: uuid.New(), Name: "Crispy Chicken", Price: 6.50, Quantity: 1},
		{MenuItemID: uuid.New(), Name: "Chicken Burger", Price: 5.50, Quantity: 1},
	}
	q, err := Price(PricingInput{
		Subtotal:  12,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantFreeItem, 0, "CHICKEN"),
		Lines:     lines,
	})
	require.NoError(t, err)
	assert.InDelta(t, 6.50, q.Discount, 1e-9)
}

func TestPriceNoLuckIsIgnored(t *testing.T) {
	q, err := Price(PricingInput{
		Subtotal:  10,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantNoLuck, 0, ""),
	})
	require.NoError(t, err)
	assert.Nil(t, q.RewardApplied)
	assert.False(t, q.ConsumeReward)
	assert.InDelta(t, 10, q.Total, 1e-9)
}

func TestPriceDeliveryWithoutZone(t *testing.T) {
	_, err := Price(PricingInput{Subtotal: 10, OrderType: models.OrderDelivery})
	assert.ErrorIs(t, err, ErrZoneRequired)
}

func TestPriceClampsNegatives(t *testing.T) {
	q, err := Price(PricingInput{
		Subtotal:  -5,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantDiscountPercent, 150, ""),
		Tip:       -1,
	})
	require.NoError(t, err)
	assert.Zero(t, q.Subtotal)
	assert.Zero(t, q.Tip)
	assert.Zero(t, q.Total)

	q, err = Price(PricingInput{
		Subtotal:  10,
		OrderType: models.OrderPickup,
		Reward:    grant(models.GrantDiscountPercent, 150, ""),
	})
	require.NoError(t, err)
	assert.Zero(t, q.Total)
}

func TestPointsIgnoreDiscountsAndFees(t *testing.T) {
	q, err := Price(PricingInput{
		Subtotal:  19.99,
		OrderType: models.OrderDelivery,
		Zone:      zoneKaslik,
		Reward:    grant(models.GrantDiscountPercent, 50, ""),
		Tip:       5,
	})
	require.NoError(t, err)
	assert.Equal(t, 19, q.PointsEarned)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 3.0, RoundCents(2.999))
	assert.Equal(t, 2.46, RoundCents(2.455000001))
	assert.Equal(t, 0.0, RoundCents(0.004))
}
