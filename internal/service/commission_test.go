package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateCommissionNGN(t *testing.T) {
	cases := []struct {
		network  string
		value    int64
		expected string
	}{
		{"mtn", 2500, "50"},
		{"glo", 1000, "25"},
		{"airtel", 5000, "100"},
		{"9mobile", 10000, "180"},
		{"unknown", 1000, "20"},
	}
	for _, tc := range cases {
		got := CalculateCommissionNGN(tc.value, tc.network)
		expected, err := decimal.NewFromString(tc.expected)
		if err != nil {
			t.Fatalf("bad expected value %q: %v", tc.expected, err)
		}
		if !got.Equal(expected) {
			t.Fatalf("%s on %d: expected %s, got %s", tc.network, tc.value, tc.expected, got.String())
		}
	}
}
