package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 5, 4, hour, minute, 0, 0, time.UTC)
}

func TestBusinessHoursStatus(t *testing.T) {
	h := DefaultBusinessHours
	cases := []struct {
		now    time.Time
		status BusinessStatus
		text   string
	}{
		{at(9, 0), BusinessClosed, "Closed • Opens 11 AM"},
		{at(10, 59), BusinessClosed, "Closed • Opens 11 AM"},
		{at(11, 0), BusinessOpen, "Open Now • Closes 11 PM"},
		{at(22, 14), BusinessOpen, "Open Now • Closes 11 PM"},
		{at(22, 15), BusinessClosingSoon, "Closing Soon • 11 PM"},
		{at(22, 59), BusinessClosingSoon, "Closing Soon • 11 PM"},
		{at(23, 0), BusinessClosed, "Closed • Opens 11 AM"},
		{at(0, 30), BusinessClosed, "Closed • Opens 11 AM"},
	}
	for _, tc := range cases {
		got := h.Status(tc.now)
		assert.Equal(t, tc.status, got.Status, tc.now.Format("15:04"))
		assert.Equal(t, tc.text, got.Text, tc.now.Format("15:04"))
	}
}

func TestBusinessHoursIsOpen(t *testing.T) {
	h := BusinessHours{OpenHour: 0, CloseHour: 12, ClosingSoon: 30 * time.Minute}
	assert.True(t, h.IsOpen(at(0, 0)))
	assert.True(t, h.IsOpen(at(11, 45)), "closing soon still takes orders")
	assert.False(t, h.IsOpen(at(12, 0)))
	assert.Equal(t, "Closed • Opens 12 AM", h.Status(at(13, 0)).Text)
}
