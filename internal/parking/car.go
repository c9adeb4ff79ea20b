package parking

import "time"

// Car is a vehicle tracked by the lot. The license plate is its identity;
// entry and exit times are zero until the lot stamps them.
type Car struct {
	LicensePlate string
	EntryTime    time.Time
	ExitTime     time.Time
}

// CarFactory builds cars for admission. The default is NewCar; a different
// factory can be plugged in if car construction ever needs to vary.
type CarFactory func(licensePlate string) *Car

func NewCar(licensePlate string) *Car {
	return &Car{LicensePlate: licensePlate}
}

// Clone returns an independent copy of the car.
func (c *Car) Clone() *Car {
	clone := *c
	return &clone
}

// ParkingDuration is the elapsed time between entry and exit, or zero if
// either timestamp is unset.
func (c *Car) ParkingDuration() time.Duration {
	if c.EntryTime.IsZero() || c.ExitTime.IsZero() {
		return 0
	}
	return c.ExitTime.Sub(c.EntryTime)
}
