package parking

import (
	"testing"
	"time"
)

func TestHourlyPricingFullHour(t *testing.T) {
	strategy := HourlyPricing(10.0)
	entry := time.UnixMilli(0)
	exit := entry.Add(time.Hour)

	if price := strategy(entry, exit); price != 10.0 {
		t.Errorf("Expected 10.0 for one hour, got %v", price)
	}
}

func TestHourlyPricingPartialHourRoundsUp(t *testing.T) {
	strategy := HourlyPricing(10.0)
	entry := time.UnixMilli(0)

	if price := strategy(entry, entry.Add(90*time.Minute)); price != 20.0 {
		t.Errorf("Expected 20.0 for 1.5 hours, got %v", price)
	}

	// One millisecond over the hour bills a full extra hour.
	if price := strategy(entry, entry.Add(time.Hour+time.Millisecond)); price != 20.0 {
		t.Errorf("Expected 20.0 for 1h1ms, got %v", price)
	}
}

func TestHourlyPricingZeroDuration(t *testing.T) {
	strategy := HourlyPricing(10.0)
	at := time.UnixMilli(1000)

	if price := strategy(at, at); price != 0.0 {
		t.Errorf("Expected 0.0 for zero duration, got %v", price)
	}
}

func TestHourlyPricingNegativeDurationClampsToZero(t *testing.T) {
	strategy := HourlyPricing(10.0)
	entry := time.UnixMilli(5000)
	exit := time.UnixMilli(1000)

	if price := strategy(entry, exit); price != 0.0 {
		t.Errorf("Expected 0.0 for exit before entry, got %v", price)
	}
}
