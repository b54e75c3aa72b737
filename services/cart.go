package services

import (
	"encoding/json"

	"donlouis-backend/models"

	"github.com/google/uuid"
)

type CartLine struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes,omitempty"`
}

// Cart holds at most one line per menu item. Lines keep insertion order.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(id uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].MenuItemID == id {
			return i
		}
	}
	return -1
}

// Add merges quantity into an existing line for the same item. New notes
// replace old ones only when non-empty.
func (c *Cart) Add(item models.MenuItem, quantity int, notes string) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.find(item.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		if notes != "" {
			c.lines[i].Notes = notes
		}
		return
	}
	price := item.Price
	if price < 0 {
		price = 0
	}
	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      price,
		Quantity:   quantity,
		Notes:      notes,
	})
}

func (c *Cart) Remove(id uuid.UUID) {
	if i := c.find(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// UpdateQuantity adds delta to a line; a line that reaches zero is removed.
func (c *Cart) UpdateQuantity(id uuid.UUID, delta int) {
	i := c.find(id)
	if i < 0 {
		return
	}
	q := c.lines[i].Quantity + delta
	if q <= 0 {
		c.Remove(id)
		return
	}
	c.lines[i].Quantity = q
}

func (c *Cart) UpdateNotes(id uuid.UUID, notes string) {
	if i := c.find(id); i >= 0 {
		c.lines[i].Notes = notes
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

func (c *Cart) TotalItems() int {
	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Snapshots freezes the cart lines into order items.
func (c *Cart) Snapshots(orderID uuid.UUID) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			MenuItemName: l.Name,
			Quantity:     l.Quantity,
			PriceAtTime:  l.Price,
			Notes:        l.Notes,
		})
	}
	return items
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

// UnmarshalJSON restores a persisted cart, dropping lines that would break
// the one-line-per-item and positive-quantity rules.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.find(l.MenuItemID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		if l.Price < 0 {
			l.Price = 0
		}
		c.lines = append(c.lines, l)
	}
	return nil
}
