package services

import (
	"fmt"
	"time"
)

type BusinessStatus string

const (
	BusinessOpen        BusinessStatus = "open"
	BusinessClosingSoon BusinessStatus = "closing_soon"
	BusinessClosed      BusinessStatus = "closed"
)

// BusinessHours is a single daily opening window in restaurant-local hours.
type BusinessHours struct {
	OpenHour    int
	CloseHour   int
	ClosingSoon time.Duration
}

var DefaultBusinessHours = BusinessHours{OpenHour: 11, CloseHour: 23, ClosingSoon: 45 * time.Minute}

type HoursStatus struct {
	Status BusinessStatus `json:"status"`
	Text   string         `json:"text"`
}

func (h BusinessHours) Status(now time.Time) HoursStatus {
	minutes := now.Hour()*60 + now.Minute()
	open, close := h.OpenHour*60, h.CloseHour*60

	if minutes < open || minutes >= close {
		return HoursStatus{Status: BusinessClosed, Text: "Closed • Opens " + formatHour(h.OpenHour)}
	}
	if minutes >= close-int(h.ClosingSoon/time.Minute) {
		return HoursStatus{Status: BusinessClosingSoon, Text: "Closing Soon • " + formatHour(h.CloseHour)}
	}
	return HoursStatus{Status: BusinessOpen, Text: "Open Now • Closes " + formatHour(h.CloseHour)}
}

func (h BusinessHours) IsOpen(now time.Time) bool {
	return h.Status(now).Status != BusinessClosed
}

func formatHour(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d %s", h12, period)
}
