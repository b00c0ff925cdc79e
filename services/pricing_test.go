package services_test

import (
	"testing"

	"onlineparking/services"

	"github.com/stretchr/testify/assert"
)

func TestAmountFor(t *testing.T) {
	cases := []struct {
		name  string
		rate  float64
		hours int
		want  float64
	}{
		{"whole rate", 10.00, 3, 30.00},
		{"single hour keeps decimals", 7.25, 1, 7.25},
		{"fractional rate rounds to two decimals", 6.666, 3, 20.00},
		{"half cent rounds up", 5.125, 2, 10.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, services.AmountFor(tc.rate, tc.hours), 1e-9)
		})
	}
}

func TestAmountForMultiSpot(t *testing.T) {
	// 多車位總額 = 單位金額 × 車位數，各車位仍各記一筆單位金額
	assert.InDelta(t, 30.00, services.AmountForMultiSpot(5.00, 3, 2), 1e-9)
	assert.InDelta(t, 21.75, services.AmountForMultiSpot(7.25, 1, 3), 1e-9)
}
