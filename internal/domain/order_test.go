package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{StatusPendingPayment, StatusPaymentConfirmed, true},
		{StatusPaymentConfirmed, StatusProcessing, true},
		{StatusPaymentConfirmed, StatusInProduction, false},
		{StatusDelivered, StatusCompleted, true},
		{StatusProcessing, StatusPendingPayment, false},
		{StatusProcessing, StatusOnHold, true},
		{StatusOutForDelivery, StatusException, true},
		{StatusDelivered, StatusOnHold, false},
		{StatusPackaging, StatusCancelled, true},
		{StatusShipped, StatusCancelled, false},
		{StatusPendingPayment, StatusRefunded, false},
		{StatusShipped, StatusRefunded, true},
		{StatusOnHold, StatusProcessing, true},
		{StatusException, StatusOnHold, true},
		{StatusOnHold, StatusCompleted, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCompleted, StatusRefunded, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_TerminalStatesHaveNoExit(t *testing.T) {
	for _, from := range AllOrderStatuses() {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range AllOrderStatuses() {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Classification(t *testing.T) {
	assert.True(t, StatusOnHold.IsSideState())
	assert.False(t, StatusPackaging.IsSideState())
	assert.False(t, OrderStatus("bogus").IsValid())
	assert.False(t, OrderStatus("bogus").IsSideState())
	assert.Len(t, AllOrderStatuses(), 14)
}

func TestOrder_Flags(t *testing.T) {
	o := Order{
		Priority: PriorityRush,
		Items: []OrderItem{
			{ProductName: "Shirt"},
			{ProductName: "Tie", BundleID: "B-1"},
		},
	}

	flags := o.Flags()

	assert.True(t, flags.IsRush)
	assert.False(t, flags.IsGroupOrder)
	assert.True(t, flags.HasBundleItems)
	assert.Equal(t, 2, o.TotalQuantity())
}
