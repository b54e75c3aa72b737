// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController serves the admin dashboard figures.
type ReportController struct{}

type CustomerSummary struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Orders int     `json:"orders"`
	Spent  float64 `json:"spent"`
}

type RevenueReport struct {
	CurrentMonthRevenue  float64           `json:"current_month_revenue"`
	PreviousMonthRevenue float64           `json:"previous_month_revenue"`
	MonthGrowth          float64           `json:"month_growth"`
	TopCustomers         []CustomerSummary `json:"top_customers"`
	AverageRating        float64           `json:"average_rating"`
	RatedOrders          int64             `json:"rated_orders"`
}

// GetStats recomputes the dashboard from the order table on every call.
func (rc *ReportController) GetStats(c *gin.Context) {
	var orders []models.Order
	if err := config.DB.Preload("Items").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, services.ComputeStats(orders, config.Now()))
}

func (rc *ReportController) GetRevenueReport(c *gin.Context) {
	now := config.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	current, err := rc.getRevenue(monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load revenue")
		return
	}
	previous, err := rc.getRevenue(prevStart, monthStart)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load revenue")
		return
	}
	top, err := rc.getTopCustomers(5)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load customers")
		return
	}

	report := RevenueReport{
		CurrentMonthRevenue:  services.RoundCents(current),
		PreviousMonthRevenue: services.RoundCents(previous),
		MonthGrowth:          services.GrowthPercentage(current, previous),
		TopCustomers:         top,
	}
	avg, rated, err := rc.getRatingSummary()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load ratings")
		return
	}
	report.AverageRating = services.RoundCents(avg)
	report.RatedOrders = rated

	c.JSON(http.StatusOK, report)
}

func (rc *ReportController) getRatingSummary() (float64, int64, error) {
	var rating struct {
		Avg   float64
		Count int64
	}
	err := config.DB.Model(&models.Order{}).
		Where("rating IS NOT NULL").
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&rating).Error
	return rating.Avg, rating.Count, err
}

func (rc *ReportController) getRevenue(start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.StatusCompleted, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getTopCustomers(limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary
	err := config.DB.Table("orders").
		Select("profiles.full_name AS name, orders.profile_phone AS phone, COUNT(orders.id) AS orders, SUM(orders.total_amount) AS spent").
		Joins("JOIN profiles ON profiles.phone = orders.profile_phone").
		Where("orders.status = ?", models.StatusCompleted).
		Group("profiles.full_name, orders.profile_phone").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error
	return customers, err
}
