// Package trend produces the 4-week dashboard series. Both series are seeded
// by the displayed month cursor, so navigating back to a month always
// reproduces the same curve while different months differ.
package trend

import (
	"time"

	"dashfleet/internal/models"
	"dashfleet/pkg/seedrand"
)

// WeekLabels are the fixed labels of every emitted series, in order.
var WeekLabels = [4]string{"Week 1", "Week 2", "Week 3", "Week 4"}

// HealthFloor is the lower clamp bound of the health trend.
const HealthFloor = 40

const (
	healthSeedSalt  uint32 = 0x48454154 // "HEAT"
	failureSeedSalt uint32 = 0x4641494C // "FAIL"

	noiseSpan     = 8.0 // perturbation in [-4, +4]
	decayPerWeek  = 1.5 // monotonically increasing per-week penalty
	shiftDownProb = 0.33
	shiftUpProb   = 0.66
)

// HealthTrend projects the fleet's average health across the displayed
// month's four weeks: avg + noise - decay, clamped to [HealthFloor, 100].
// A fleet with no health signal (avg <= 0) yields four zero points.
func HealthTrend(avgHealth float64, year int, month time.Month) []models.TrendPoint {
	points := make([]models.TrendPoint, 0, len(WeekLabels))

	if avgHealth <= 0 {
		for _, label := range WeekLabels {
			points = append(points, models.TrendPoint{Label: label})
		}
		return points
	}

	rng := seedrand.New(monthSeed(year, month) ^ healthSeedSalt)
	for idx, label := range WeekLabels {
		noise := rng()*noiseSpan - noiseSpan/2
		value := avgHealth + noise - decayPerWeek*float64(idx)
		if value < HealthFloor {
			value = HealthFloor
		}
		if value > 100 {
			value = 100
		}
		points = append(points, models.TrendPoint{Label: label, Value: value})
	}
	return points
}

// FailureTrend splits the fleet's predicted-failure total across the
// displayed month's four weeks: an even base split with the remainder handed
// out one per week from week 0, then a month-seeded redistribution that may
// shift single counts between adjacent weeks. Buckets never go negative and
// the series always sums to total.
func FailureTrend(total int, year int, month time.Month) []models.TrendPoint {
	if total < 0 {
		total = 0
	}

	counts := [4]int{}
	base := total / len(counts)
	rem := total % len(counts)
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}

	if total > 0 {
		rng := seedrand.New(monthSeed(year, month) ^ failureSeedSalt)
		for i := 0; i < len(counts)-1; i++ {
			switch r := rng(); {
			case r < shiftDownProb && counts[i] > 0:
				counts[i]--
				counts[i+1]++
			case r > shiftUpProb && counts[i+1] > 0:
				counts[i+1]--
				counts[i]++
			}
		}
	}

	points := make([]models.TrendPoint, 0, len(counts))
	for i, label := range WeekLabels {
		points = append(points, models.TrendPoint{Label: label, Value: float64(counts[i])})
	}
	return points
}

func monthSeed(year int, month time.Month) uint32 {
	return uint32(year)*100 + uint32(month)
}
