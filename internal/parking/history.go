package parking

import "time"

// HistoryEntry archives one completed parking session. The car is a value
// snapshot taken at exit, so later lot activity cannot touch it.
type HistoryEntry struct {
	Car       Car
	EntryTime time.Time
	ExitTime  time.Time
	Paid      float64
}
