package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/saunabooking/internal/domain/availability"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    availability.Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "09-30", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := availability.ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestNewInterval_RequiresStartBeforeEnd(t *testing.T) {
	_, err := availability.NewInterval("15:00", "15:00")
	assert.Error(t, err)

	_, err = availability.NewInterval("16:00", "15:00")
	assert.Error(t, err)

	iv, err := availability.NewInterval("13:00", "15:00")
	require.NoError(t, err)
	assert.Equal(t, 120, iv.Minutes())
	assert.Equal(t, "13:00-15:00", iv.String())
}

func TestInterval_Overlaps(t *testing.T) {
	booked := mustInterval(t, "13:00", "15:00")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"straddles end", "14:30", "15:30", true},
		{"touches end", "15:00", "16:00", false},
		{"touches start", "12:00", "13:00", false},
		{"inside", "13:30", "14:00", true},
		{"covers", "12:00", "16:00", true},
		{"identical", "13:00", "15:00", true},
		{"before", "10:00", "11:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := mustInterval(t, tt.start, tt.end)
			assert.Equal(t, tt.want, candidate.Overlaps(booked))
			assert.Equal(t, tt.want, booked.Overlaps(candidate), "overlap is symmetric")
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := availability.ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.June, d.Month())

	_, err = availability.ParseDate("01/06/2024")
	assert.Error(t, err)
}

func mustInterval(t *testing.T, start, end string) availability.Interval {
	t.Helper()
	iv, err := availability.NewInterval(start, end)
	require.NoError(t, err)
	return iv
}
