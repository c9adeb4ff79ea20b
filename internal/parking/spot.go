package parking

type Spot struct {
	Number     int
	IsOccupied bool
	Car        *Car
}

func NewSpot(number int) *Spot {
	return &Spot{
		Number:     number,
		IsOccupied: false,
		Car:        nil,
	}
}

// Park places the car in this spot. The lot only calls this on free spots.
func (s *Spot) Park(car *Car) {
	s.Car = car
	s.IsOccupied = true
}

func (s *Spot) Leave() *Car {
	car := s.Car
	s.Car = nil
	s.IsOccupied = false
	return car
}
