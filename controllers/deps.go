package controllers

import (
	"context"
	"errors"
	"net/http"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators handlers reach beyond the database.
// Optional ones (Notifier, Images, AI) may be nil.
type Dependencies struct {
	Notifier     *services.NotificationService
	Images       services.ImageStore
	AI           services.AIService
	Wheel        *services.Wheel
	Hours        services.BusinessHours
	EnforceHours bool
	Hub          *services.Hub
}

var deps = defaultDependencies()

func defaultDependencies() Dependencies {
	wheel, _ := services.NewWheel(services.DefaultPrizes, nil)
	return Dependencies{
		Wheel: wheel,
		Hours: services.DefaultBusinessHours,
		Hub:   services.NewHub(16),
	}
}

func Configure(d Dependencies) {
	def := defaultDependencies()
	if d.Wheel == nil {
		d.Wheel = def.Wheel
	}
	if d.Hours.CloseHour == 0 {
		d.Hours = def.Hours
	}
	if d.Hub == nil {
		if d.Notifier != nil && d.Notifier.Hub() != nil {
			d.Hub = d.Notifier.Hub()
		} else {
			d.Hub = def.Hub
		}
	}
	deps = d
}

// respondServiceError maps domain errors to status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMissingCustomer),
		errors.Is(err, services.ErrInvalidTip),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrZoneRequired),
		errors.Is(err, services.ErrUnknownZone),
		errors.Is(err, services.ErrAddressRequired),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrInvalidGrant),
		errors.Is(err, services.ErrUnknownStatus):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadySpun),
		errors.Is(err, services.ErrNotRateable),
		errors.Is(err, services.ErrStoreClosed):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrImageStoreDisabled),
		errors.Is(err, services.ErrAIDisabled):
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		config.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

func notifyCreated(ctx context.Context, o models.Order) {
	if deps.Notifier != nil {
		deps.Notifier.OrderCreated(ctx, o)
		return
	}
	deps.Hub.Publish(services.NewOrderEvent(services.EventOrderCreated, o, config.Now()))
}

func notifyStatus(ctx context.Context, o models.Order) {
	if deps.Notifier != nil {
		deps.Notifier.OrderStatusChanged(ctx, o)
		return
	}
	deps.Hub.Publish(services.NewOrderEvent(services.EventOrderStatus, o, config.Now()))
}
