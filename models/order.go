package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderType string

const (
	OrderPickup   OrderType = "pickup"
	OrderDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderPickup || t == OrderDelivery
}

type OrderStatus string

const (
	StatusNew            OrderStatus = "new"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ProfilePhone    string      `gorm:"index;not null" json:"profile_phone"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	CustomerAddress *string     `json:"customer_address"`
	OrderType       OrderType   `gorm:"type:varchar(20);not null" json:"order_type"`
	Status          OrderStatus `gorm:"type:varchar(20);index;not null;default:'new'" json:"status"`

	Subtotal    float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount    float64 `gorm:"type:decimal(10,2);default:0.0" json:"discount"`
	DeliveryFee float64 `gorm:"type:decimal(10,2);default:0.0" json:"delivery_fee"`
	TipAmount   float64 `gorm:"type:decimal(10,2);default:0.0" json:"tip_amount"`
	TotalAmount float64 `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	RewardLabel string  `json:"reward_label,omitempty"`

	Rating   *int   `json:"rating,omitempty"`
	Feedback string `gorm:"type:text" json:"feedback,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem is an immutable snapshot of a menu item at order time.
type OrderItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	MenuItemName string    `gorm:"not null" json:"menu_item_name"`
	Quantity     int       `gorm:"default:1" json:"quantity"`
	PriceAtTime  float64   `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
	Notes        string    `json:"notes,omitempty"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type OrderStatusLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID   `gorm:"type:uuid;index;not null" json:"order_id"`
	OldStatus OrderStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus OrderStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy string      `gorm:"type:varchar(40)" json:"changed_by"`
	ChangedAt time.Time   `json:"changed_at"`
}

func (l *OrderStatusLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}
