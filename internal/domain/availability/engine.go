package availability

import (
	"fmt"
	"math"

	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// SlotMinutes is the width of one availability grid slot.
const SlotMinutes = 60

// Window returns the sauna's default operating window. Weekday overrides
// are catalog data and do not narrow the bookable grid.
func Window(sauna *entities.Sauna) (Interval, error) {
	window, err := NewInterval(sauna.OpenTime, sauna.CloseTime)
	if err != nil {
		return Interval{}, fmt.Errorf("sauna %s has invalid operating hours: %w", sauna.ID, err)
	}
	return window, nil
}

// BookedIntervals parses the intervals of all non-cancelled bookings.
func BookedIntervals(bookings []*entities.Booking) ([]Interval, error) {
	out := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == entities.BookingStatusCancelled {
			continue
		}
		iv, err := NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		out = append(out, iv)
	}
	return out, nil
}

// Grid enumerates hourly slots from the window's open time while the slot
// start is before close. The last slot may be shorter than an hour. A slot is
// available when no booked interval contains its start minute.
func Grid(window Interval, booked []Interval) []entities.TimeSlot {
	n := (window.Minutes() + SlotMinutes - 1) / SlotMinutes
	slots := make([]entities.TimeSlot, 0, n)
	for t := window.Start; t < window.End; t += SlotMinutes {
		available := true
		for _, b := range booked {
			if b.Contains(t) {
				available = false
				break
			}
		}
		slots = append(slots, entities.TimeSlot{Time: t.String(), Available: available})
	}
	return slots
}

// FindConflict returns the first non-cancelled booking whose interval
// overlaps the candidate. The booking with excludeID is ignored so that an
// existing booking can be checked against its neighbours.
func FindConflict(candidate Interval, existing []*entities.Booking, excludeID string) (*entities.Booking, error) {
	for _, b := range existing {
		if b.Status == entities.BookingStatusCancelled {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		iv, err := NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		if candidate.Overlaps(iv) {
			return b, nil
		}
	}
	return nil, nil
}

// Price charges the hourly rate pro rata per minute, rounded half away from
// zero to two decimals to match the NUMERIC(12,2) column.
func Price(i Interval, hourlyRate float64) float64 {
	return math.Round(float64(i.Minutes())/60*hourlyRate*100) / 100
}
