package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const historyLimit = 10

type RatingInput struct {
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
}

type StatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type orderView struct {
	models.Order
	StatusLabel  string               `json:"status_label"`
	NextStatuses []models.OrderStatus `json:"next_statuses"`
}

func viewOf(o models.Order) orderView {
	next := services.NextStatuses(o.Status, o.OrderType)
	if next == nil {
		next = []models.OrderStatus{}
	}
	return orderView{Order: o, StatusLabel: services.StatusLabel(o.Status), NextStatuses: next}
}

func viewsOf(orders []models.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, viewOf(o))
	}
	return out
}

func loadCart(req services.CheckoutRequest) (*services.Cart, error) {
	if len(req.Items) == 0 {
		return nil, services.ErrEmptyCart
	}
	var catalog []models.MenuItem
	if err := config.DB.Where("id IN ?", req.MenuItemIDs()).Find(&catalog).Error; err != nil {
		return nil, err
	}
	return services.BuildCart(catalog, req.Items)
}

// rewardOwner is the phone whose active reward may be applied: only a
// signed-in customer ordering under their own number.
func rewardOwner(c *gin.Context, phone string) (string, bool) {
	owner, ok := utils.CurrentCustomer(c)
	return owner, ok && owner == utils.NormalizePhone(phone)
}

// QuoteOrder prices a cart without writing anything.
func QuoteOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if req.OrderType == "" {
		req.OrderType = models.OrderPickup
	}

	cart, err := loadCart(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var reward *models.RewardGrant
	if phone, ok := rewardOwner(c, req.Phone); ok {
		var profile models.Profile
		if err := config.DB.Where("phone = ?", phone).First(&profile).Error; err == nil {
			reward = profile.ActiveReward
		}
	}

	in, err := services.PricingFor(req, cart, reward)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	quote, err := services.Price(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote, "lines": cart.Lines(), "total_items": cart.TotalItems()})
}

// Checkout places an order. Profile upsert, order and item snapshots are one
// transaction; nothing is written when validation fails.
func Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := services.ValidateCheckout(req); err != nil {
		respondServiceError(c, err)
		return
	}
	phone := utils.NormalizePhone(req.Phone)
	if !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if deps.EnforceHours && !deps.Hours.IsOpen(config.Now()) {
		respondServiceError(c, services.ErrStoreClosed)
		return
	}

	cart, err := loadCart(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// Fails fast on an unknown zone before the transaction opens.
	zone, err := services.ResolveZone(req.OrderType, req.ZoneID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	_, useReward := rewardOwner(c, phone)

	var (
		order   models.Order
		quote   services.Quote
		profile models.Profile
	)
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("phone = ?", phone).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{Phone: phone, FullName: strings.TrimSpace(req.CustomerName)}
		err = tx.Create(&profile).Error
	}
	if err != nil {
		tx.Rollback()
		config.Log.Error("checkout profile upsert failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	var reward *models.RewardGrant
	if useReward {
		reward = profile.ActiveReward
	}
	in, err := services.PricingFor(req, cart, reward)
	if err == nil {
		quote, err = services.Price(in)
	}
	if err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	services.ApplyCheckout(&profile, req, quote)
	if err := tx.Model(&profile).Select("full_name", "points", "active_reward").Updates(&profile).Error; err != nil {
		tx.Rollback()
		config.Log.Error("checkout profile update failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	order = services.NewOrder(req, phone, cart, zone, quote)
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		config.Log.Error("checkout order insert failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to place order")
		return
	}
	if err := tx.Create(&models.OrderStatusLog{
		OrderID:   order.ID,
		NewStatus: models.StatusNew,
		ChangedBy: "customer",
		ChangedAt: time.Now(),
	}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	if err := tx.Commit().Error; err != nil {
		config.Log.Error("checkout commit failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	config.Log.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("type", string(order.OrderType)),
		zap.Float64("total", order.TotalAmount),
		zap.Int("points", quote.PointsEarned),
		zap.Bool("reward_consumed", quote.ConsumeReward))
	notifyCreated(c.Request.Context(), order)

	c.JSON(http.StatusCreated, gin.H{
		"order":   viewOf(order),
		"quote":   quote,
		"loyalty": services.Summarize(&profile),
	})
}

// GetOrder is the tracking read. Order ids are unguessable, so the link
// itself is the credential.
func GetOrder(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var order models.Order
	if err := config.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, viewOf(order))
}

func RateOrder(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		respondServiceError(c, services.ErrInvalidRating)
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if order.Status != models.StatusCompleted {
		respondServiceError(c, services.ErrNotRateable)
		return
	}
	rating := input.Rating
	if err := config.DB.Model(&order).Updates(map[string]interface{}{
		"rating":   rating,
		"feedback": strings.TrimSpace(input.Feedback),
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save rating")
		return
	}
	order.Rating = &rating
	order.Feedback = strings.TrimSpace(input.Feedback)
	c.JSON(http.StatusOK, viewOf(order))
}

// MyOrders returns the customer's most recent orders with items.
func MyOrders(c *gin.Context) {
	phone, ok := utils.CurrentCustomer(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Customer session required")
		return
	}
	var orders []models.Order
	if err := config.DB.Preload("Items").
		Where("profile_phone = ?", phone).
		Order("created_at DESC").
		Limit(historyLimit).
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	c.JSON(http.StatusOK, viewsOf(orders))
}

func MyActiveOrder(c *gin.Context) {
	phone, ok := utils.CurrentCustomer(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Customer session required")
		return
	}
	var order models.Order
	err := config.DB.Preload("Items").
		Where("profile_phone = ? AND status IN ?", phone, services.ActiveStatuses).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"order": nil})
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": viewOf(order)})
}

// AdminListOrders supports ?status=, ?active=true, ?date=YYYY-MM-DD and ?limit=.
func AdminListOrders(c *gin.Context) {
	q := config.DB.Preload("Items").Order("created_at DESC")

	if s := c.Query("status"); s != "" {
		if !services.KnownStatus(models.OrderStatus(s)) {
			respondServiceError(c, services.ErrUnknownStatus)
			return
		}
		q = q.Where("status = ?", s)
	}
	if c.Query("active") == "true" {
		q = q.Where("status IN ?", services.ActiveStatuses)
	}
	if d := c.Query("date"); d != "" {
		day, err := time.ParseInLocation("2006-01-02", d, config.App.Location())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		start, end := utils.DayRange(day)
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	limit := 100
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	var orders []models.Order
	if err := q.Limit(limit).Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	c.JSON(http.StatusOK, viewsOf(orders))
}

func GetOrderTransitions(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": order.Status,
		"next":   viewOf(order).NextStatuses,
	})
}

// UpdateOrderStatus applies one lifecycle transition, logs it and notifies
// the customer.
func UpdateOrderStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := transitionOrder(id, input.Status, "admin")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	notifyStatus(c.Request.Context(), order)
	c.JSON(http.StatusOK, viewOf(order))
}

func transitionOrder(id uuid.UUID, to models.OrderStatus, changedBy string) (models.Order, error) {
	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		from, err := services.Transition(&order, to)
		if err != nil {
			return err
		}
		if err := tx.Model(&order).Update("status", order.Status).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusLog{
			OrderID:   order.ID,
			OldStatus: from,
			NewStatus: order.Status,
			ChangedBy: changedBy,
			ChangedAt: time.Now(),
		}).Error
	})
	if err == nil {
		config.Log.Info("order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)))
	}
	return order, err
}

func GetOrderHistory(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var logs []models.OrderStatusLog
	if err := config.DB.Where("order_id = ?", id).Order("changed_at ASC").Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusOK, logs)
}
