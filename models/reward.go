package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrantType string

const (
	GrantDiscountPercent GrantType = "discount_percent"
	GrantFreeDelivery    GrantType = "free_delivery"
	GrantFreeItem        GrantType = "free_item"
	GrantNoLuck          GrantType = "no_luck"
)

func (t GrantType) Valid() bool {
	switch t {
	case GrantDiscountPercent, GrantFreeDelivery, GrantFreeItem, GrantNoLuck:
		return true
	}
	return false
}

// RewardGrant is the benefit held in a profile's single active reward slot.
// Claiming a reward, spinning the wheel or receiving a referral bonus
// overwrites whatever grant was there before.
type RewardGrant struct {
	Type           GrantType `json:"type"`
	Value          float64   `json:"value"`
	Label          string    `json:"label"`
	TargetItemName string    `json:"target_item_name,omitempty"`
}

// IsValid reports whether the grant can be redeemed at checkout.
// A stored no_luck result is kept for display only.
func (g *RewardGrant) IsValid() bool {
	return g != nil && g.Type != GrantNoLuck && g.Type != ""
}

// Reward is an admin-managed rule customers buy with loyalty points.
type Reward struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	PointsCost     int       `gorm:"not null;index" json:"points_cost"`
	GrantType      GrantType `gorm:"type:varchar(20);not null" json:"grant_type"`
	Value          float64   `gorm:"type:decimal(6,2);default:0" json:"value"`
	TargetItemName string    `json:"target_item_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// Grant builds the active reward a customer receives when claiming r.
func (r Reward) Grant() RewardGrant {
	g := RewardGrant{
		Type:  r.GrantType,
		Label: r.Title,
	}
	switch r.GrantType {
	case GrantDiscountPercent:
		g.Value = r.Value
	case GrantFreeItem:
		g.TargetItemName = r.TargetItemName
	}
	return g
}
