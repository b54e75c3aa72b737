package services

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"donlouis-backend/models"
)

const (
	// WheelSpins is the number of full turns before the wheel settles.
	WheelSpins = 8
	// jitterSpan is the share of one segment the landing point may wander,
	// centred on the segment middle (so at most 20% either way).
	jitterSpan = 0.4

	spinDateLayout = "2006-01-02"
)

type Prize struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Grant       models.RewardGrant `json:"grant"`
	Probability float64            `json:"probability"`
}

// DefaultPrizes is the reference wheel, in segment order.
var DefaultPrizes = []Prize{
	{ID: "5off", Label: "5% OFF", Grant: models.RewardGrant{Type: models.GrantDiscountPercent, Value: 5, Label: "5% Discount"}, Probability: 0.35},
	{ID: "15off", Label: "15% OFF", Grant: models.RewardGrant{Type: models.GrantDiscountPercent, Value: 15, Label: "15% Discount"}, Probability: 0.20},
	{ID: "tryagain", Label: "Try Again", Grant: models.RewardGrant{Type: models.GrantNoLuck, Value: 0, Label: "No Luck"}, Probability: 0.35},
	{ID: "25off", Label: "25% OFF", Grant: models.RewardGrant{Type: models.GrantDiscountPercent, Value: 25, Label: "25% Discount"}, Probability: 0.08},
	{ID: "50off", Label: "50% OFF", Grant: models.RewardGrant{Type: models.GrantDiscountPercent, Value: 50, Label: "50% Discount"}, Probability: 0.02},
}

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

type Wheel struct {
	prizes []Prize
	rnd    RandomSource
}

type SpinResult struct {
	Index    int     `json:"index"`
	Prize    Prize   `json:"prize"`
	Rotation float64 `json:"rotation"`
	Won      bool    `json:"won"`
}

// NewWheel builds a wheel over prizes. A nil source uses the shared
// goroutine-safe generator.
func NewWheel(prizes []Prize, rnd RandomSource) (*Wheel, error) {
	if len(prizes) == 0 {
		return nil, errors.New("wheel needs at least one prize")
	}
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Wheel{prizes: prizes, rnd: rnd}, nil
}

func (w *Wheel) Prizes() []Prize {
	return append([]Prize(nil), w.prizes...)
}

// Select walks the cumulative weights and returns the first index whose
// running sum exceeds r. When rounding keeps the sum below r the last prize
// wins.
func (w *Wheel) Select(r float64) int {
	var cumulative float64
	for i, p := range w.prizes {
		cumulative += p.Probability
		if r < cumulative {
			return i
		}
	}
	return len(w.prizes) - 1
}

func (w *Wheel) SegmentAngle() float64 {
	return 360 / float64(len(w.prizes))
}

// TargetRotation is the clockwise rotation that leaves the pointer on
// segment index. jitterUnit in [0, 1) moves the landing point within
// ±20% of a segment around its centre.
func (w *Wheel) TargetRotation(index int, jitterUnit float64) float64 {
	seg := w.SegmentAngle()
	center := float64(index)*seg + seg/2
	jitter := (jitterUnit - 0.5) * seg * jitterSpan
	return 360*WheelSpins - center + jitter
}

// SegmentAt returns the segment under the pointer after rotating by rotation.
func (w *Wheel) SegmentAt(rotation float64) int {
	seg := w.SegmentAngle()
	a := math.Mod(-rotation, 360)
	if a < 0 {
		a += 360
	}
	i := int(a / seg)
	if i >= len(w.prizes) {
		i = len(w.prizes) - 1
	}
	return i
}

func (w *Wheel) Spin() SpinResult {
	idx := w.Select(w.rnd.Float64())
	prize := w.prizes[idx]
	return SpinResult{
		Index:    idx,
		Prize:    prize,
		Rotation: w.TargetRotation(idx, w.rnd.Float64()),
		Won:      prize.Grant.IsValid(),
	}
}

// SpinDate is the calendar date of now in now's location.
func SpinDate(now time.Time) string {
	return now.Format(spinDateLayout)
}

// CanSpin compares calendar dates only, so eligibility resets at local
// midnight regardless of when the previous spin happened.
func CanSpin(lastSpinDate string, now time.Time) bool {
	return lastSpinDate != SpinDate(now)
}

// ApplySpin records the spin on the profile. no_luck results are stored too
// so the client can show them, but they are never redeemable.
func ApplySpin(p *models.Profile, result SpinResult, now time.Time) error {
	if !CanSpin(p.LastSpinDate, now) {
		return ErrAlreadySpun
	}
	grant := result.Prize.Grant
	p.LastSpinDate = SpinDate(now)
	p.ActiveReward = &grant
	return nil
}
