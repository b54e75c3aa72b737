package services

import (
	"sort"
	"time"

	"donlouis-backend/models"
	"donlouis-backend/utils"
)

type TopItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type Stats struct {
	DailyRevenue float64                    `json:"daily_revenue"`
	DailyOrders  int                        `json:"daily_orders"`
	TotalRevenue float64                    `json:"total_revenue"`
	TotalOrders  int                        `json:"total_orders"`
	AverageOrder float64                    `json:"average_order"`
	StatusCounts map[models.OrderStatus]int `json:"status_counts"`
	TopItems     []TopItem                  `json:"top_items"`
	ActiveOrders int                        `json:"active_orders"`
	GeneratedAt  time.Time                  `json:"generated_at"`
}

const topItemsLimit = 5

// ComputeStats aggregates the admin dashboard figures. Daily figures count
// every non-cancelled order created on now's calendar date; lifetime figures
// count completed orders only. Orders must carry their items for TopItems.
func ComputeStats(orders []models.Order, now time.Time) Stats {
	s := Stats{
		StatusCounts: map[models.OrderStatus]int{},
		GeneratedAt:  now,
	}
	dayStart, dayEnd := utils.DayRange(now)
	items := map[string]*TopItem{}

	for _, o := range orders {
		s.StatusCounts[o.Status]++
		if !IsTerminal(o.Status) {
			s.ActiveOrders++
		}

		created := o.CreatedAt.In(now.Location())
		if o.Status != models.StatusCancelled && !created.Before(dayStart) && created.Before(dayEnd) {
			s.DailyRevenue += o.TotalAmount
			s.DailyOrders++
		}

		if o.Status != models.StatusCompleted {
			continue
		}
		s.TotalRevenue += o.TotalAmount
		s.TotalOrders++
		for _, it := range o.Items {
			t, ok := items[it.MenuItemName]
			if !ok {
				t = &TopItem{Name: it.MenuItemName}
				items[it.MenuItemName] = t
			}
			t.Quantity += it.Quantity
			t.Revenue += it.PriceAtTime * float64(it.Quantity)
		}
	}

	if s.TotalOrders > 0 {
		s.AverageOrder = RoundCents(s.TotalRevenue / float64(s.TotalOrders))
	}
	s.DailyRevenue = RoundCents(s.DailyRevenue)
	s.TotalRevenue = RoundCents(s.TotalRevenue)

	for _, t := range items {
		t.Revenue = RoundCents(t.Revenue)
		s.TopItems = append(s.TopItems, *t)
	}
	sort.Slice(s.TopItems, func(i, j int) bool {
		if s.TopItems[i].Quantity != s.TopItems[j].Quantity {
			return s.TopItems[i].Quantity > s.TopItems[j].Quantity
		}
		return s.TopItems[i].Name < s.TopItems[j].Name
	})
	if len(s.TopItems) > topItemsLimit {
		s.TopItems = s.TopItems[:topItemsLimit]
	}
	return s
}

// GrowthPercentage compares two period totals. Growth from nothing counts as
// 100%.
func GrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return RoundCents((current - previous) / previous * 100)
}
