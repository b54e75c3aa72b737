package services

import (
	"fmt"
	"math"
	"strings"

	"donlouis-backend/models"
)

type Tier struct {
	Name     string `json:"name"`
	Floor    int    `json:"floor"`
	NextGoal int    `json:"next_goal"`
}

var (
	TierBronze   = Tier{Name: "Bronze", Floor: 0, NextGoal: 200}
	TierGold     = Tier{Name: "Gold", Floor: 200, NextGoal: 500}
	TierPlatinum = Tier{Name: "Platinum", Floor: 500, NextGoal: 1000}
)

// ReferralBonus is granted to a referrer every time their code is used.
var ReferralBonus = models.RewardGrant{
	Type:  models.GrantDiscountPercent,
	Value: 30,
	Label: "Referral Bonus (30% OFF)",
}

// PointsEarned is one point per whole unit of the undiscounted subtotal.
func PointsEarned(subtotal float64) int {
	if subtotal <= 0 || math.IsNaN(subtotal) {
		return 0
	}
	return int(math.Floor(subtotal))
}

func TierFor(points int) Tier {
	switch {
	case points >= TierPlatinum.Floor:
		return TierPlatinum
	case points >= TierGold.Floor:
		return TierGold
	default:
		return TierBronze
	}
}

// TierProgress is the percentage towards the next goal, capped at 100.
func TierProgress(points int) float64 {
	if points < 0 {
		points = 0
	}
	goal := TierFor(points).NextGoal
	return math.Min(100, float64(points)/float64(goal)*100)
}

type LoyaltySummary struct {
	Points        int                 `json:"points"`
	Tier          Tier                `json:"tier"`
	Progress      float64             `json:"progress"`
	ReferralCount int                 `json:"referral_count"`
	ReferralCode  string              `json:"referral_code"`
	ActiveReward  *models.RewardGrant `json:"active_reward"`
	CanRedeem     bool                `json:"can_redeem"`
}

func Summarize(p *models.Profile) LoyaltySummary {
	return LoyaltySummary{
		Points:        p.Points,
		Tier:          TierFor(p.Points),
		Progress:      TierProgress(p.Points),
		ReferralCount: p.ReferralCount,
		ReferralCode:  p.Phone,
		ActiveReward:  p.ActiveReward,
		CanRedeem:     p.ActiveReward.IsValid(),
	}
}

// ShouldApplyReferral ignores empty codes and self-referrals.
func ShouldApplyReferral(code, newPhone string) bool {
	code = strings.TrimSpace(code)
	return code != "" && code != strings.TrimSpace(newPhone)
}

// ApplyReferral overwrites the referrer's active reward with the bonus and
// counts the referral. Repeated use of the same code counts again.
func ApplyReferral(referrer *models.Profile) {
	bonus := ReferralBonus
	referrer.ActiveReward = &bonus
	referrer.ReferralCount++
}

// ClaimReward spends points and replaces the active reward slot.
func ClaimReward(p *models.Profile, r models.Reward) error {
	if err := ValidateReward(r); err != nil {
		return err
	}
	if p.Points < r.PointsCost {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientPoints, r.PointsCost, p.Points)
	}
	grant := r.Grant()
	p.Points -= r.PointsCost
	p.ActiveReward = &grant
	return nil
}

// ValidateReward checks the structured definition an admin entered.
func ValidateReward(r models.Reward) error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGrant)
	}
	if r.PointsCost <= 0 {
		return fmt.Errorf("%w: points cost must be positive", ErrInvalidGrant)
	}
	switch r.GrantType {
	case models.GrantDiscountPercent:
		if r.Value <= 0 || r.Value > 100 {
			return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidGrant)
		}
	case models.GrantFreeItem:
		if strings.TrimSpace(r.TargetItemName) == "" {
			return fmt.Errorf("%w: free item needs a target item name", ErrInvalidGrant)
		}
	case models.GrantFreeDelivery:
	default:
		return fmt.Errorf("%w: unsupported grant type %q", ErrInvalidGrant, r.GrantType)
	}
	return nil
}

// UpsertAddress replaces the address with the same label (case-insensitive)
// in place, or appends it.
func UpsertAddress(list []models.SavedAddress, addr models.SavedAddress) []models.SavedAddress {
	for i := range list {
		if strings.EqualFold(list[i].Label, addr.Label) {
			out := append([]models.SavedAddress(nil), list...)
			out[i] = addr
			return out
		}
	}
	return append(append([]models.SavedAddress(nil), list...), addr)
}

func RemoveAddress(list []models.SavedAddress, label string) ([]models.SavedAddress, bool) {
	out := make([]models.SavedAddress, 0, len(list))
	removed := false
	for _, a := range list {
		if strings.EqualFold(a.Label, label) {
			removed = true
			continue
		}
		out = append(out, a)
	}
	return out, removed
}
