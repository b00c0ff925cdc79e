package models_test

import (
	"testing"
	"time"

	"onlineparking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingBetween(t *testing.T, start, end string) *models.Booking {
	t.Helper()
	s, err := time.Parse("2006-01-02T15:04:05", start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02T15:04:05", end)
	require.NoError(t, err)
	return &models.Booking{StartTime: s, EndTime: e}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04:05", value)
	require.NoError(t, err)
	return parsed
}

func TestBookingOverlaps(t *testing.T) {
	b := bookingBetween(t, "2024-01-01T10:00:00", "2024-01-01T12:00:00")

	cases := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"fully inside", "2024-01-01T10:30:00", "2024-01-01T11:30:00", true},
		{"fully containing", "2024-01-01T09:00:00", "2024-01-01T13:00:00", true},
		{"partial from left", "2024-01-01T09:00:00", "2024-01-01T10:30:00", true},
		{"partial from right", "2024-01-01T11:30:00", "2024-01-01T13:00:00", true},
		// 邊界相接也視為衝突
		{"touching at booking end", "2024-01-01T12:00:00", "2024-01-01T14:00:00", true},
		{"touching at booking start", "2024-01-01T08:00:00", "2024-01-01T10:00:00", true},
		{"before", "2024-01-01T08:00:00", "2024-01-01T09:59:59", false},
		{"after", "2024-01-01T12:00:01", "2024-01-01T14:00:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Overlaps(at(t, tc.start), at(t, tc.end)))
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, models.CanTransition(models.BookingActive, models.BookingCompleted))
	assert.True(t, models.CanTransition(models.BookingActive, models.BookingCancelled))

	// 終態不再流轉
	assert.False(t, models.CanTransition(models.BookingCompleted, models.BookingActive))
	assert.False(t, models.CanTransition(models.BookingCompleted, models.BookingCancelled))
	assert.False(t, models.CanTransition(models.BookingCancelled, models.BookingActive))
	assert.False(t, models.CanTransition(models.BookingCancelled, models.BookingCompleted))

	// 未定義的狀態一律拒絕
	assert.False(t, models.CanTransition("unknown", models.BookingCompleted))
	assert.False(t, models.CanTransition(models.BookingActive, "unknown"))
}
