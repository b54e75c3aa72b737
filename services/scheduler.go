package services

import (
	"context"
	"time"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduler runs the periodic jobs: re-broadcasting active orders so
// clients that missed a push converge, and logging the daily figures.
type Scheduler struct {
	db       *gorm.DB
	notifier *NotificationService
	cron     *cron.Cron
}

func NewScheduler(db *gorm.DB, notifier *NotificationService, loc *time.Location) *Scheduler {
	return &Scheduler{
		db:       db,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(loc)),
	}
}

func (s *Scheduler) Start(reconcileSpec, statsSpec string) error {
	if _, err := s.cron.AddFunc(reconcileSpec, s.ResyncActiveOrders); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(statsSpec, s.LogDailyStats); err != nil {
		return err
	}
	s.cron.Start()
	config.Log.Info("scheduler started",
		zap.String("reconcile", reconcileSpec), zap.String("stats", statsSpec))
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) ResyncActiveOrders() {
	if s.notifier.Hub().Subscribers() == 0 {
		return
	}
	var orders []models.Order
	if err := s.db.Where("status IN ?", ActiveStatuses).Find(&orders).Error; err != nil {
		config.Log.Warn("failed to load active orders", zap.Error(err))
		return
	}
	ctx := context.Background()
	for _, o := range orders {
		s.notifier.Resync(ctx, o)
	}
}

func (s *Scheduler) LogDailyStats() {
	now := config.Now()
	start, end := utils.DayRange(now)

	var orders []models.Order
	if err := s.db.Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&orders).Error; err != nil {
		config.Log.Warn("failed to load today's orders", zap.Error(err))
		return
	}
	st := ComputeStats(orders, now)
	config.Log.Info("daily summary",
		zap.Float64("revenue", st.DailyRevenue),
		zap.Int("orders", st.DailyOrders),
		zap.Int("completed", st.StatusCounts[models.StatusCompleted]),
		zap.Int("cancelled", st.StatusCounts[models.StatusCancelled]))
}
