package parking

import (
	"math"
	"time"
)

// PricingStrategy converts a completed session into a fee. Implementations
// must be pure: same times in, same price out.
type PricingStrategy func(entryTime, exitTime time.Time) float64

// HourlyPricing charges per started hour: any fraction of an hour is billed
// as a full hour. Negative durations clamp to zero.
func HourlyPricing(pricePerHour float64) PricingStrategy {
	return func(entryTime, exitTime time.Time) float64 {
		durationMillis := exitTime.Sub(entryTime).Milliseconds()
		if durationMillis <= 0 {
			return 0
		}
		hours := math.Ceil(float64(durationMillis) / (1000 * 60 * 60))
		return hours * pricePerHour
	}
}
