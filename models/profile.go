package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SavedAddress struct {
	Label   string `json:"label"`
	Address string `json:"address"`
	ZoneID  string `json:"zone_id"`
}

// Profile is the loyalty ledger of one customer, keyed naturally by phone.
type Profile struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Phone         string    `gorm:"uniqueIndex;not null" json:"phone"`
	FullName      string    `gorm:"not null" json:"full_name"`
	PinHash       string    `json:"-"`
	Email         string    `json:"email,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Points        int       `gorm:"default:0;not null" json:"points"`
	ReferralCount int       `gorm:"default:0;not null" json:"referral_count"`

	// LastSpinDate is the restaurant-local calendar date (YYYY-MM-DD) of the
	// most recent wheel spin.
	LastSpinDate   string         `gorm:"type:varchar(10)" json:"last_spin_date,omitempty"`
	ActiveReward   *RewardGrant   `gorm:"type:jsonb;serializer:json" json:"active_reward"`
	SavedAddresses []SavedAddress `gorm:"type:jsonb;serializer:json" json:"saved_addresses"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// HasPin is false for profiles created by guest checkout.
func (p *Profile) HasPin() bool {
	return p.PinHash != ""
}
