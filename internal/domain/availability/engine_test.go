package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/saunabooking/internal/domain/availability"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

func booking(id, start, end string, status entities.BookingStatus) *entities.Booking {
	return &entities.Booking{
		ID:          id,
		SaunaID:     "sauna-1",
		BookingDate: "2024-06-01",
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
}

func TestGrid_MarksBookedSlots(t *testing.T) {
	window := mustInterval(t, "10:00", "22:00")
	booked, err := availability.BookedIntervals([]*entities.Booking{
		booking("b1", "13:00", "15:00", entities.BookingStatusConfirmed),
	})
	require.NoError(t, err)

	slots := availability.Grid(window, booked)

	require.Len(t, slots, 12)
	assert.Equal(t, "10:00", slots[0].Time)
	assert.Equal(t, "21:00", slots[11].Time)
	for _, s := range slots {
		want := s.Time != "13:00" && s.Time != "14:00"
		assert.Equal(t, want, s.Available, s.Time)
	}
}

func TestGrid_IncludesShortFinalSlot(t *testing.T) {
	slots := availability.Grid(mustInterval(t, "10:00", "12:30"), nil)

	require.Len(t, slots, 3)
	assert.Equal(t, []string{"10:00", "11:00", "12:00"}, []string{slots[0].Time, slots[1].Time, slots[2].Time})
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGrid_SlotBlockedOnlyWhenStartIsInsideBooking(t *testing.T) {
	booked := []availability.Interval{mustInterval(t, "10:30", "11:00")}

	slots := availability.Grid(mustInterval(t, "10:00", "12:00"), booked)

	require.Len(t, slots, 2)
	assert.True(t, slots[0].Available, "10:00 is before the booking starts")
	assert.True(t, slots[1].Available, "11:00 is the booking's exclusive end")
}

func TestBookedIntervals_SkipsCancelled(t *testing.T) {
	booked, err := availability.BookedIntervals([]*entities.Booking{
		booking("b1", "13:00", "15:00", entities.BookingStatusCancelled),
		booking("b2", "16:00", "17:00", entities.BookingStatusCompleted),
	})
	require.NoError(t, err)

	require.Len(t, booked, 1)
	assert.Equal(t, "16:00-17:00", booked[0].String())
}

func TestFindConflict(t *testing.T) {
	existing := []*entities.Booking{
		booking("cancelled", "14:00", "16:00", entities.BookingStatusCancelled),
		booking("b1", "13:00", "15:00", entities.BookingStatusConfirmed),
	}

	tests := []struct {
		name      string
		start     string
		end       string
		excludeID string
		wantID    string
	}{
		{name: "overlapping", start: "14:30", end: "15:30", wantID: "b1"},
		{name: "back to back", start: "15:00", end: "16:00"},
		{name: "excluded self", start: "13:00", end: "15:00", excludeID: "b1"},
		{name: "ends at booking start", start: "12:00", end: "13:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := availability.FindConflict(mustInterval(t, tt.start, tt.end), existing, tt.excludeID)
			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestPrice(t *testing.T) {
	assert.InDelta(t, 120000.0, availability.Price(mustInterval(t, "14:00", "15:30"), 80000), 1e-9)
	assert.InDelta(t, 25.0, availability.Price(mustInterval(t, "10:00", "10:15"), 100), 1e-9)
	// 7/60 * 80000 = 9333.333...
	assert.Equal(t, 9333.33, availability.Price(mustInterval(t, "10:00", "10:07"), 80000))
	// 1/60 * 1 = 0.01666...
	assert.Equal(t, 0.02, availability.Price(mustInterval(t, "10:00", "10:01"), 1))
}

func TestWindow_IgnoresWeekdayOverrides(t *testing.T) {
	sauna := &entities.Sauna{ID: "sauna-1", OpenTime: "10:00", CloseTime: "22:00"}

	w, err := availability.Window(sauna)
	require.NoError(t, err)
	assert.Equal(t, "10:00-22:00", w.String())

	sauna.OperatingHours = []entities.OperatingHours{
		{DayOfWeek: 5, OpenTime: "12:00", CloseTime: "18:00"},
		{DayOfWeek: 6, IsClosed: true},
	}
	w, err = availability.Window(sauna)
	require.NoError(t, err)
	assert.Equal(t, "10:00-22:00", w.String())

	_, err = availability.Window(&entities.Sauna{ID: "bad", OpenTime: "22:00", CloseTime: "10:00"})
	assert.Error(t, err)
}
