package parking

import (
	"testing"
	"time"
)

func TestNewCar(t *testing.T) {
	car := NewCar("123-45-678")

	if car.LicensePlate != "123-45-678" {
		t.Errorf("Expected license plate 123-45-678, got %s", car.LicensePlate)
	}
	if !car.EntryTime.IsZero() {
		t.Error("Expected entry time to be unset")
	}
	if !car.ExitTime.IsZero() {
		t.Error("Expected exit time to be unset")
	}
}

func TestCarClone(t *testing.T) {
	car := NewCar("123-45-678")
	car.EntryTime = time.UnixMilli(1000)
	car.ExitTime = time.UnixMilli(5000)

	clone := car.Clone()

	if clone == car {
		t.Error("Expected clone to be a distinct instance")
	}
	if clone.LicensePlate != car.LicensePlate ||
		!clone.EntryTime.Equal(car.EntryTime) ||
		!clone.ExitTime.Equal(car.ExitTime) {
		t.Errorf("Expected clone to copy all fields, got %+v", clone)
	}

	clone.ExitTime = time.UnixMilli(9000)
	if car.ExitTime.Equal(clone.ExitTime) {
		t.Error("Expected clone mutation to leave the original untouched")
	}
}

func TestCarParkingDuration(t *testing.T) {
	car := NewCar("123-45-678")

	if d := car.ParkingDuration(); d != 0 {
		t.Errorf("Expected 0 duration with unset timestamps, got %v", d)
	}

	car.EntryTime = time.UnixMilli(0)
	car.ExitTime = car.EntryTime.Add(90 * time.Minute)

	if d := car.ParkingDuration(); d != 90*time.Minute {
		t.Errorf("Expected 90m duration, got %v", d)
	}
}
