package services

import (
	"math/rand/v2"
	"testing"
	"time"

	"donlouis-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	values []float64
	i      int
}

func (f *fixedSource) Float64() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

func newTestWheel(t *testing.T, rnd RandomSource) *Wheel {
	t.Helper()
	w, err := NewWheel(DefaultPrizes, rnd)
	require.NoError(t, err)
	return w
}

func TestWheelSelectBoundaries(t *testing.T) {
	w := newTestWheel(t, nil)
	cases := []struct {
		r    float64
		want int
	}{
		{0, 0},
		{0.3499, 0},
		{0.35, 1},
		{0.5499, 1},
		{0.5501, 2},
		{0.8999, 2},
		{0.9001, 3},
		{0.9799, 3},
		{0.9801, 4},
		{0.999999, 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, w.Select(tc.r), "r=%v", tc.r)
	}
}

func TestWheelSelectFallsBackToLast(t *testing.T) {
	w, err := NewWheel([]Prize{
		{ID: "a", Probability: 0.3},
		{ID: "b", Probability: 0.3},
		{ID: "c", Probability: 0.3},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Select(0.95))
}

func TestWheelNeedsPrizes(t *testing.T) {
	_, err := NewWheel(nil, nil)
	assert.Error(t, err)
}

func TestWheelDistribution(t *testing.T) {
	const draws = 100_000
	w := newTestWheel(t, rand.New(rand.NewPCG(42, 1024)))

	counts := make([]int, len(DefaultPrizes))
	for i := 0; i < draws; i++ {
		counts[w.Spin().Index]++
	}
	for i, p := range DefaultPrizes {
		observed := float64(counts[i]) / draws
		assert.InDelta(t, p.Probability, observed, 0.02, "prize %s", p.ID)
	}
}

func TestWheelTargetLandsOnSegment(t *testing.T) {
	w := newTestWheel(t, nil)
	for idx := range DefaultPrizes {
		for _, u := range []float64{0, 0.001, 0.25, 0.5, 0.75, 0.999999} {
			rot := w.TargetRotation(idx, u)
			assert.Equal(t, idx, w.SegmentAt(rot), "index=%d jitter=%v", idx, u)
			assert.Greater(t, rot, 360.0*(WheelSpins-1))
		}
	}
}

func TestWheelSpinIsConsistent(t *testing.T) {
	w := newTestWheel(t, &fixedSource{values: []float64{0.6, 0.9}})
	res := w.Spin()
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, "tryagain", res.Prize.ID)
	assert.False(t, res.Won)
	assert.Equal(t, res.Index, w.SegmentAt(res.Rotation))

	w = newTestWheel(t, &fixedSource{values: []float64{0.1, 0.5}})
	res = w.Spin()
	assert.Equal(t, 0, res.Index)
	assert.True(t, res.Won)
}

func TestSpinEligibilityByCalendarDate(t *testing.T) {
	beirut, err := time.LoadLocation("Asia/Beirut")
	require.NoError(t, err)

	late := time.Date(2026, 3, 10, 23, 50, 0, 0, beirut)
	p := &models.Profile{}
	w := newTestWheel(t, &fixedSource{values: []float64{0.95, 0.5}})

	require.NoError(t, ApplySpin(p, w.Spin(), late))
	assert.Equal(t, "2026-03-10", p.LastSpinDate)
	require.NotNil(t, p.ActiveReward)
	assert.Equal(t, 25.0, p.ActiveReward.Value)

	sameDay := late.Add(5 * time.Minute)
	assert.False(t, CanSpin(p.LastSpinDate, sameDay))
	assert.ErrorIs(t, ApplySpin(p, w.Spin(), sameDay), ErrAlreadySpun)

	afterMidnight := late.Add(15 * time.Minute)
	assert.True(t, CanSpin(p.LastSpinDate, afterMidnight), "eligibility resets at local midnight")
	require.NoError(t, ApplySpin(p, w.Spin(), afterMidnight))
	assert.Equal(t, "2026-03-11", p.LastSpinDate)
}

func TestNoLuckIsStoredButNotRedeemable(t *testing.T) {
	p := &models.Profile{}
	w := newTestWheel(t, &fixedSource{values: []float64{0.6, 0.5}})
	require.NoError(t, ApplySpin(p, w.Spin(), time.Now()))

	require.NotNil(t, p.ActiveReward)
	assert.Equal(t, models.GrantNoLuck, p.ActiveReward.Type)
	assert.False(t, p.ActiveReward.IsValid())

	q, err := Price(PricingInput{Subtotal: 10, OrderType: models.OrderPickup, Reward: p.ActiveReward})
	require.NoError(t, err)
	assert.Zero(t, q.Discount)
	assert.False(t, q.ConsumeReward)
}
