package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 11, s.OpenHour)
	assert.Equal(t, 23, s.CloseHour)
	assert.Equal(t, "Asia/Beirut", s.Location().String())
	assert.Equal(t, 30*24*time.Hour, s.JWTExpiry())
	assert.Equal(t, "@every 1m", s.ReconcileSchedule)
	assert.Equal(t, 5, s.LoginBurst)
	assert.Equal(t, 20, s.LoginIPBurst)
}

func TestLoadSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "donlouis.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("port: \"7000\"\nopen_hour: 10\ntimezone: Europe/Paris\n"), 0o600))

	t.Setenv("PORT", "9090")

	s, err := LoadSettings(viper.New(), cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "9090", s.Port, "environment wins over the file")
	assert.Equal(t, 10, s.OpenHour)
	assert.Equal(t, "Europe/Paris", s.Location().String())
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := LoadSettings(viper.New(), "")
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("OPEN_HOUR", "23")
	t.Setenv("CLOSE_HOUR", "11")
	_, err = LoadSettings(viper.New(), "")
	assert.Error(t, err)

	_, err = LoadSettings(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNowUsesRestaurantZone(t *testing.T) {
	prev := App
	defer func() { App = prev }()

	s := DefaultSettings()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s.loc = loc
	App = s

	assert.Equal(t, "America/New_York", Now().Location().String())

	var nilSettings *Settings
	assert.Equal(t, time.UTC, nilSettings.Location())
}

func TestInitLogger(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	_, err := InitLogger("loud", "json")
	assert.Error(t, err)

	logger, err := InitLogger("debug", "console")
	require.NoError(t, err)
	assert.Same(t, logger, Log)
}
