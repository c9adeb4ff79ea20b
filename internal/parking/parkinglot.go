package parking

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrAlreadyParked = errors.New("car is already parked in the lot")
	ErrLotFull       = errors.New("parking lot is full")
	ErrCarNotFound   = errors.New("car not found")
)

// Observer is called after every successful admission or removal, in
// registration order, with the lot that changed. A panicking observer
// aborts the remaining chain.
type Observer func(*ParkingLot)

// ParkingLot owns a fixed set of spots, the session history, and the
// registered observers. It is not safe for concurrent use; callers that
// share a lot across goroutines must serialize access themselves.
type ParkingLot struct {
	spots     []*Spot
	history   []HistoryEntry
	observers []Observer
	pricing   PricingStrategy
	factory   CarFactory
	clock     func() time.Time
}

// NewParkingLot builds a lot with the given number of empty spots. The lot
// is an ordinary value owned by its constructor's caller; create it once at
// the composition point and pass it to every consumer.
func NewParkingLot(totalSpots int, pricing PricingStrategy) *ParkingLot {
	spots := make([]*Spot, totalSpots)
	for i := 0; i < totalSpots; i++ {
		spots[i] = NewSpot(i + 1)
	}

	return &ParkingLot{
		spots:   spots,
		pricing: pricing,
		factory: NewCar,
		clock:   time.Now,
	}
}

// SetCarFactory swaps the constructor used for admitted cars.
func (pl *ParkingLot) SetCarFactory(factory CarFactory) {
	pl.factory = factory
}

// AddCar admits a car into the first free spot in spot order and returns
// its spot number. It fails with ErrAlreadyParked if the plate is already
// in the lot and ErrLotFull if no spot is free; either way the lot is left
// unchanged.
func (pl *ParkingLot) AddCar(licensePlate string) (int, error) {
	for _, spot := range pl.spots {
		if spot.IsOccupied && spot.Car.LicensePlate == licensePlate {
			return 0, ErrAlreadyParked
		}
	}

	for _, spot := range pl.spots {
		if !spot.IsOccupied {
			car := pl.factory(licensePlate)
			car.EntryTime = pl.clock()
			spot.Park(car)
			pl.notifyObservers()
			return spot.Number, nil
		}
	}
	return 0, ErrLotFull
}

// RemoveCar releases the spot holding the given plate, prices the session,
// and archives it. The returned entry is the receipt for the session.
func (pl *ParkingLot) RemoveCar(licensePlate string) (HistoryEntry, error) {
	for _, spot := range pl.spots {
		if spot.IsOccupied && spot.Car.LicensePlate == licensePlate {
			car := spot.Car
			car.ExitTime = pl.clock()
			entry := HistoryEntry{
				Car:       *car.Clone(),
				EntryTime: car.EntryTime,
				ExitTime:  car.ExitTime,
				Paid:      pl.pricing(car.EntryTime, car.ExitTime),
			}
			pl.history = append(pl.history, entry)
			spot.Leave()
			pl.notifyObservers()
			return entry, nil
		}
	}
	return HistoryEntry{}, ErrCarNotFound
}

// FindCar returns the spot number holding the given plate.
func (pl *ParkingLot) FindCar(licensePlate string) (int, error) {
	for _, spot := range pl.spots {
		if spot.IsOccupied && spot.Car.LicensePlate == licensePlate {
			return spot.Number, nil
		}
	}
	return 0, ErrCarNotFound
}

// AddObserver registers an observer. There is no deduplication and no way
// to unregister.
func (pl *ParkingLot) AddObserver(observer Observer) {
	pl.observers = append(pl.observers, observer)
}

func (pl *ParkingLot) notifyObservers() {
	for _, observer := range pl.observers {
		observer(pl)
	}
}

func (pl *ParkingLot) TotalSpots() int {
	return len(pl.spots)
}

func (pl *ParkingLot) OccupiedSpots() int {
	count := 0
	for _, spot := range pl.spots {
		if spot.IsOccupied {
			count++
		}
	}
	return count
}

func (pl *ParkingLot) FreeSpots() int {
	return pl.TotalSpots() - pl.OccupiedSpots()
}

// AverageParkingTimeMinutes is the mean session length over the whole
// history, in minutes. Zero if nothing has been archived yet.
func (pl *ParkingLot) AverageParkingTimeMinutes() float64 {
	if len(pl.history) == 0 {
		return 0
	}
	var total float64
	for _, entry := range pl.history {
		total += float64(entry.ExitTime.Sub(entry.EntryTime).Milliseconds())
	}
	return total / float64(len(pl.history)) / (1000 * 60)
}

// TodaysRevenue sums the fees of sessions whose exit time falls on the
// current calendar day in local time.
func (pl *ParkingLot) TodaysRevenue() float64 {
	now := pl.clock()
	year, dayOfYear := now.Year(), now.YearDay()
	var sum float64
	for _, entry := range pl.history {
		if entry.ExitTime.Year() == year && entry.ExitTime.YearDay() == dayOfYear {
			sum += entry.Paid
		}
	}
	return sum
}

// Spots returns a copy of the lot's spot list in its fixed order.
func (pl *ParkingLot) Spots() []*Spot {
	return slices.Clone(pl.spots)
}

// Status returns the occupied spots in spot order.
func (pl *ParkingLot) Status() []*Spot {
	var occupied []*Spot
	for _, spot := range pl.spots {
		if spot.IsOccupied {
			occupied = append(occupied, spot)
		}
	}
	return occupied
}

// History returns a copy of the archived sessions, oldest first.
func (pl *ParkingLot) History() []HistoryEntry {
	return slices.Clone(pl.history)
}
