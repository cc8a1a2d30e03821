package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestEstimateWeight(t *testing.T) {
	tests := []struct {
		name     string
		items    []OrderItem
		explicit *float64
		expected float64
	}{
		{
			name:     "Single suit",
			items:    []OrderItem{{ProductName: "Navy Suit", Quantity: 1}},
			expected: 2.5,
		},
		{
			name: "Quantities multiply",
			items: []OrderItem{
				{ProductName: "Blazer", Quantity: 2},
				{ProductName: "Dress Shoes", Quantity: 1},
			},
			expected: 4.0,
		},
		{
			name:     "Waistcoat uses vest weight",
			items:    []OrderItem{{ProductName: "Waistcoat", Quantity: 1}},
			expected: 0.3,
		},
		{
			name:     "Unmatched item uses default",
			items:    []OrderItem{{ProductName: "Pocket Square", Quantity: 2}},
			expected: 1.0,
		},
		{
			name:     "Missing quantity counts as one",
			items:    []OrderItem{{ProductName: "Jacket"}},
			expected: 1.5,
		},
		{
			name:     "Light items are floored",
			items:    []OrderItem{{ProductName: "Tie", Quantity: 0}},
			expected: 0.1,
		},
		{
			name:     "No items are floored",
			items:    nil,
			expected: 0.1,
		},
		{
			name:     "Explicit weight wins",
			items:    []OrderItem{{ProductName: "Navy Suit", Quantity: 4}},
			explicit: floatPtr(3.2),
			expected: 3.2,
		},
		{
			name:     "Non-positive explicit weight is ignored",
			items:    []OrderItem{{ProductName: "Navy Suit", Quantity: 1}},
			explicit: floatPtr(0),
			expected: 2.5,
		},
		{
			name:     "Tiny explicit weight is floored",
			explicit: floatPtr(0.01),
			expected: 0.1,
		},
	}

	estimator := NewWeightEstimator(DefaultScoringConfig().Weight)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, estimator.EstimateWeight(tt.items, tt.explicit), 1e-9)
		})
	}
}

func TestEstimateWeight_NeverBelowFloor(t *testing.T) {
	estimator := NewWeightEstimator(DefaultScoringConfig().Weight)
	names := []string{"", "tie", "bow tie", "suspender", "x"}

	for _, n := range names {
		for q := -2; q < 3; q++ {
			w := estimator.EstimateWeight([]OrderItem{{ProductName: n, Quantity: q}}, nil)
			assert.GreaterOrEqual(t, w, 0.1, "name=%q quantity=%d", n, q)
		}
	}
	assert.GreaterOrEqual(t, estimator.EstimateWeight(nil, floatPtr(-5)), 0.1)
}
