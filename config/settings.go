package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Port           string   `mapstructure:"port"`
	DBURL          string   `mapstructure:"db_url"`
	JWTSecret      string   `mapstructure:"jwt_secret"`
	JWTExpiryHours int      `mapstructure:"jwt_expiry_hours"`
	AdminPinHash   string   `mapstructure:"admin_pin_hash"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	Timezone             string `mapstructure:"timezone"`
	OpenHour             int    `mapstructure:"open_hour"`
	CloseHour            int    `mapstructure:"close_hour"`
	ClosingSoonMinutes   int    `mapstructure:"closing_soon_minutes"`
	EnforceBusinessHours bool   `mapstructure:"enforce_business_hours"`

	TwilioAccountSID     string `mapstructure:"twilio_account_sid"`
	TwilioAuthToken      string `mapstructure:"twilio_auth_token"`
	TwilioPhoneNumber    string `mapstructure:"twilio_phone_number"`
	TwilioWhatsAppNumber string `mapstructure:"twilio_whatsapp_number"`
	SMSNotifications     bool   `mapstructure:"sms_notifications"`

	RabbitMQURL string `mapstructure:"rabbitmq_url"`

	S3Bucket        string `mapstructure:"s3_bucket"`
	S3Region        string `mapstructure:"s3_region"`
	S3PublicBaseURL string `mapstructure:"s3_public_base_url"`

	GeminiAPIKey     string `mapstructure:"gemini_api_key"`
	GeminiTextModel  string `mapstructure:"gemini_text_model"`
	GeminiImageModel string `mapstructure:"gemini_image_model"`

	ReconcileSchedule string `mapstructure:"reconcile_schedule"`
	StatsSchedule     string `mapstructure:"stats_schedule"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	AdminLoginRate  float64 `mapstructure:"admin_login_rate"`
	AdminLoginBurst int     `mapstructure:"admin_login_burst"`

	LoginRate    float64 `mapstructure:"login_rate"`
	LoginBurst   int     `mapstructure:"login_burst"`
	LoginIPBurst int     `mapstructure:"login_ip_burst"`

	loc *time.Location
}

// App holds the settings the server was started with.
var App = DefaultSettings()

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiry_hours", 24*30)
	v.SetDefault("admin_pin_hash", "")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("timezone", "Asia/Beirut")
	v.SetDefault("open_hour", 11)
	v.SetDefault("close_hour", 23)
	v.SetDefault("closing_soon_minutes", 45)
	v.SetDefault("enforce_business_hours", true)
	v.SetDefault("twilio_account_sid", "")
	v.SetDefault("twilio_auth_token", "")
	v.SetDefault("twilio_phone_number", "")
	v.SetDefault("twilio_whatsapp_number", "")
	v.SetDefault("sms_notifications", false)
	v.SetDefault("rabbitmq_url", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "eu-central-1")
	v.SetDefault("s3_public_base_url", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_text_model", "gemini-2.5-flash")
	v.SetDefault("gemini_image_model", "gemini-2.5-flash-image")
	v.SetDefault("reconcile_schedule", "@every 1m")
	v.SetDefault("stats_schedule", "55 23 * * *")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("admin_login_rate", 0.2)
	v.SetDefault("admin_login_burst", 5)
	v.SetDefault("login_rate", 0.1)
	v.SetDefault("login_burst", 5)
	v.SetDefault("login_ip_burst", 20)
}

// DefaultSettings returns the built-in defaults without reading the
// environment.
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	s := &Settings{}
	_ = v.Unmarshal(s)
	s.loc = time.UTC
	if loc, err := time.LoadLocation(s.Timezone); err == nil {
		s.loc = loc
	}
	return s
}

// LoadSettings reads .env, the optional config file and the environment, in
// that order of increasing precedence.
func LoadSettings(v *viper.Viper, cfgFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		Log.Debug("no .env file found")
	}

	setDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	s.loc = loc

	if s.OpenHour < 0 || s.CloseHour > 24 || s.OpenHour >= s.CloseHour {
		return nil, fmt.Errorf("invalid business hours %d-%d", s.OpenHour, s.CloseHour)
	}
	return &s, nil
}

func (s *Settings) Location() *time.Location {
	if s == nil || s.loc == nil {
		return time.UTC
	}
	return s.loc
}

func (s *Settings) JWTExpiry() time.Duration {
	return time.Duration(s.JWTExpiryHours) * time.Hour
}

// Now is the current restaurant-local time.
func Now() time.Time {
	return time.Now().In(App.Location())
}
