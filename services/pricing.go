package services

import (
	"math"
	"strings"

	"donlouis-backend/models"
)

// PricingInput is everything the engine needs to price one checkout.
// Zone is nil for pickup or when the customer has not picked an area yet.
type PricingInput struct {
	Subtotal  float64
	OrderType models.OrderType
	Zone      *models.DeliveryZone
	Reward    *models.RewardGrant
	Lines     []CartLine
	Tip       float64
}

type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	ZoneFee     float64 `json:"zone_fee"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tip         float64 `json:"tip"`
	Total       float64 `json:"total"`

	// RewardApplied is the grant the quote was computed with, if valid.
	RewardApplied *models.RewardGrant `json:"reward_applied,omitempty"`
	// ConsumeReward tells the checkout to clear the active reward slot.
	ConsumeReward bool `json:"consume_reward"`
	// MissingRewardItem names the free item the customer still has to add.
	MissingRewardItem string `json:"missing_reward_item,omitempty"`
	PointsEarned      int    `json:"points_earned"`
}

// Price computes discount, delivery fee and total. It has no side effects.
func Price(in PricingInput) (Quote, error) {
	subtotal := nonNegative(in.Subtotal)
	tip := nonNegative(in.Tip)

	var zoneFee float64
	if in.OrderType == models.OrderDelivery {
		if in.Zone == nil {
			return Quote{}, ErrZoneRequired
		}
		zoneFee = nonNegative(in.Zone.Fee)
	}

	q := Quote{
		Subtotal:     subtotal,
		ZoneFee:      zoneFee,
		DeliveryFee:  zoneFee,
		Tip:          tip,
		PointsEarned: PointsEarned(subtotal),
	}

	reward := in.Reward
	if reward.IsValid() {
		applied := *reward
		q.RewardApplied = &applied

		switch reward.Type {
		case models.GrantDiscountPercent:
			q.Discount = subtotal * reward.Value / 100
		case models.GrantFreeDelivery:
			q.DeliveryFee = 0
		case models.GrantFreeItem:
			if line, ok := matchFreeItem(in.Lines, reward.TargetItemName); ok {
				q.Discount = line.Price
			} else {
				q.MissingRewardItem = reward.TargetItemName
			}
		}
		q.Discount = nonNegative(q.Discount)
		q.ConsumeReward = q.Discount > 0 ||
			(reward.Type == models.GrantFreeDelivery && in.OrderType == models.OrderDelivery)
	}

	q.Total = math.Max(0, subtotal-q.Discount+q.DeliveryFee+tip)
	return q, nil
}

// matchFreeItem finds the first line whose name contains target, ignoring case.
func matchFreeItem(lines []CartLine, target string) (CartLine, bool) {
	if strings.TrimSpace(target) == "" {
		return CartLine{}, false
	}
	needle := strings.ToLower(target)
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l.Name), needle) {
			return l, true
		}
	}
	return CartLine{}, false
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// RoundCents rounds a monetary amount for storage in decimal(10,2) columns.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
