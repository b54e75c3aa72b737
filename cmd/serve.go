package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"donlouis-backend/config"
	"donlouis-backend/controllers"
	"donlouis-backend/models"
	"donlouis-backend/routes"
	"donlouis-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var printRoutesFlag bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		defer config.Log.Sync()
		return serve(cmd.Context(), settings)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&printRoutesFlag, "print-routes", false, "print the registered routes on startup")
}

func serve(parent context.Context, settings *config.Settings) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if settings.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set; generate one with the gen-secret command")
	}
	if err := config.ConnectDB(settings.DBURL); err != nil {
		return err
	}
	if err := models.AutoMigrate(config.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	hub := services.NewHub(32)

	var publisher services.EventPublisher
	if settings.RabbitMQURL != "" {
		rp, err := services.NewRabbitPublisher(settings.RabbitMQURL)
		if err != nil {
			config.Log.Warn("order events will not be broadcast", zap.Error(err))
		} else {
			defer rp.Close()
			publisher = rp
		}
	}

	var sender services.MessageSender
	if settings.SMSNotifications && settings.TwilioAccountSID != "" {
		sender = services.NewTwilioSender(settings.TwilioAccountSID, settings.TwilioAuthToken)
	}

	notifier := services.NewNotificationService(config.DB, hub, publisher, sender, services.NotificationOptions{
		SMS:            sender != nil,
		FromNumber:     settings.TwilioPhoneNumber,
		WhatsAppNumber: settings.TwilioWhatsAppNumber,
	})

	var images services.ImageStore
	if settings.S3Bucket != "" {
		store, err := services.NewS3ImageStore(ctx, settings.S3Bucket, settings.S3Region, settings.S3PublicBaseURL)
		if err != nil {
			config.Log.Warn("image uploads disabled", zap.Error(err))
		} else {
			images = store
		}
	}

	var ai services.AIService
	if settings.GeminiAPIKey != "" {
		g, err := services.NewGeminiService(ctx, settings.GeminiAPIKey, settings.GeminiTextModel, settings.GeminiImageModel)
		if err != nil {
			config.Log.Warn("ai helper disabled", zap.Error(err))
		} else {
			ai = g
		}
	}

	wheel, err := services.NewWheel(services.DefaultPrizes, nil)
	if err != nil {
		return err
	}

	controllers.Configure(controllers.Dependencies{
		Notifier: notifier,
		Images:   images,
		AI:       ai,
		Wheel:    wheel,
		Hours: services.BusinessHours{
			OpenHour:    settings.OpenHour,
			CloseHour:   settings.CloseHour,
			ClosingSoon: time.Duration(settings.ClosingSoonMinutes) * time.Minute,
		},
		EnforceHours: settings.EnforceBusinessHours,
		Hub:          hub,
	})

	scheduler := services.NewScheduler(config.DB, notifier, settings.Location())
	if err := scheduler.Start(settings.ReconcileSchedule, settings.StatsSchedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	defer scheduler.Stop()

	if settings.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(settings)
	if printRoutesFlag {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	config.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
