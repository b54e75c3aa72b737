package controllers

import (
	"io"
	"net/http"
	"time"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var keepAliveInterval = 25 * time.Second

// StreamOrder pushes status changes of one order as server-sent events. The
// first event is a snapshot so a reconnecting client never misses the
// latest status.
func StreamOrder(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	streamEvents(c, id, &order)
}

// StreamAdminOrders pushes every order event to the admin board.
func StreamAdminOrders(c *gin.Context) {
	streamEvents(c, uuid.Nil, nil)
}

func streamEvents(c *gin.Context, orderID uuid.UUID, snapshot *models.Order) {
	events, unsubscribe := deps.Hub.Subscribe(orderID)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if snapshot != nil {
		c.SSEvent(services.EventOrderSync, services.NewOrderEvent(services.EventOrderSync, *snapshot, config.Now()))
		c.Writer.Flush()
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Kind, ev)
			return !services.IsTerminal(ev.Status) || orderID == uuid.Nil
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": config.Now()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func GetStoreStatus(c *gin.Context) {
	now := config.Now()
	status := deps.Hours.Status(now)
	c.JSON(http.StatusOK, gin.H{
		"status":           status.Status,
		"text":             status.Text,
		"accepting_orders": !deps.EnforceHours || status.Status != services.BusinessClosed,
		"now":              now,
	})
}

func GetZones(c *gin.Context) {
	c.JSON(http.StatusOK, models.DeliveryZones)
}

// GetAdminSession is a cheap probe the admin UI uses to validate its token.
func GetAdminSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"role": utils.RoleAdmin, "subscribers": deps.Hub.Subscribers()})
}
