// services/notification_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donlouis-backend/config"
	"donlouis-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageSender delivers one text message and returns the provider id.
type MessageSender interface {
	Send(to, from, body string) (string, error)
}

type twilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSid, authToken string) MessageSender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *twilioSender) Send(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type NotificationOptions struct {
	// SMS turns customer text messages on; realtime push is always on.
	SMS            bool
	FromNumber     string
	WhatsAppNumber string
}

// NotificationService tells everyone who cares that an order changed: the
// realtime hub, the message broker and, when enabled, the customer's phone.
type NotificationService struct {
	db        *gorm.DB
	hub       *Hub
	publisher EventPublisher
	sender    MessageSender
	opts      NotificationOptions
	now       func() time.Time
}

func NewNotificationService(db *gorm.DB, hub *Hub, publisher EventPublisher, sender MessageSender, opts NotificationOptions) *NotificationService {
	return &NotificationService{
		db:        db,
		hub:       hub,
		publisher: publisher,
		sender:    sender,
		opts:      opts,
		now:       config.Now,
	}
}

func (s *NotificationService) Hub() *Hub {
	return s.hub
}

func (s *NotificationService) OrderCreated(ctx context.Context, o models.Order) {
	s.dispatch(ctx, NewOrderEvent(EventOrderCreated, o, s.now()), o)
}

func (s *NotificationService) OrderStatusChanged(ctx context.Context, o models.Order) {
	s.dispatch(ctx, NewOrderEvent(EventOrderStatus, o, s.now()), o)
}

// Resync re-broadcasts an order without texting the customer again.
func (s *NotificationService) Resync(ctx context.Context, o models.Order) {
	ev := NewOrderEvent(EventOrderSync, o, s.now())
	if s.hub != nil {
		s.hub.Publish(ev)
	}
}

func (s *NotificationService) dispatch(ctx context.Context, ev OrderEvent, o models.Order) {
	if s.hub != nil {
		s.hub.Publish(ev)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderEvent(ctx, ev); err != nil {
			config.Log.Warn("failed to publish order event",
				zap.String("order_id", o.ID.String()), zap.Error(err))
		}
	}
	if s.opts.SMS && s.sender != nil {
		s.sendStatusMessage(o)
	}
}

func StatusMessage(o models.Order) string {
	name := strings.TrimSpace(o.CustomerName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s, your Don Louis order #%s: %s",
		name, ShortOrderID(o), StatusLabel(o.Status))
}

// ShortOrderID is the first 8 characters of the order id, as shown on the
// tracking screen.
func ShortOrderID(o models.Order) string {
	return strings.ToUpper(o.ID.String()[:8])
}

func (s *NotificationService) sendStatusMessage(o models.Order) {
	message := StatusMessage(o)

	// Use WhatsApp if phone is in E.164 format and a sender is configured
	channel := "sms"
	to, from := o.ProfilePhone, s.opts.FromNumber
	if strings.HasPrefix(o.ProfilePhone, "+") && s.opts.WhatsAppNumber != "" {
		channel = "whatsapp"
		to = "whatsapp:" + o.ProfilePhone
		from = "whatsapp:" + s.opts.WhatsAppNumber
	}

	sid, err := s.sender.Send(to, from, message)
	status := "sent"
	errorMsg := ""
	if err != nil {
		config.Log.Warn("failed to send order message",
			zap.String("order_id", o.ID.String()), zap.String("channel", channel), zap.Error(err))
		status = "failed"
		errorMsg = err.Error()
	} else {
		config.Log.Info("order message sent",
			zap.String("order_id", o.ID.String()), zap.String("channel", channel), zap.String("sid", sid))
	}

	if s.db == nil {
		return
	}
	entry := models.NotificationLog{
		OrderID:      o.ID,
		Phone:        o.ProfilePhone,
		OrderStatus:  o.Status,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		config.Log.Warn("failed to log notification", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
}
