package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusReturned, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusReturned, OrderStatusRefunded, true},
		{OrderStatusReturned, OrderStatusPending, false},
		// états terminaux
		{OrderStatusDelivered, OrderStatusReturned, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"→"+tt.to, func(t *testing.T) {
			o := Order{Status: tt.from}
			assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to))
		})
	}
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, Order{Status: OrderStatusPending}.IsCancellable())
	assert.True(t, Order{Status: OrderStatusProcessing}.IsCancellable())
	// une fois expédiée, plus d'annulation: il faut passer par un retour
	assert.False(t, Order{Status: OrderStatusShipped}.IsCancellable())
	assert.False(t, Order{Status: OrderStatusDelivered}.IsCancellable())
	assert.False(t, Order{Status: OrderStatusCancelled}.IsCancellable())
}

func TestIsRefundable(t *testing.T) {
	assert.True(t, Order{Status: OrderStatusShipped}.IsRefundable())
	assert.True(t, Order{Status: OrderStatusDelivered}.IsRefundable())
	assert.True(t, Order{Status: OrderStatusReturned}.IsRefundable())
	assert.False(t, Order{Status: OrderStatusPending}.IsRefundable())
	assert.False(t, Order{Status: OrderStatusProcessing}.IsRefundable())
	assert.False(t, Order{Status: OrderStatusRefunded}.IsRefundable())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, Order{Status: OrderStatusDelivered}.IsTerminal())
	assert.True(t, Order{Status: OrderStatusCancelled}.IsTerminal())
	assert.True(t, Order{Status: OrderStatusRefunded}.IsTerminal())
	assert.False(t, Order{Status: OrderStatusPending}.IsTerminal())
	assert.False(t, Order{Status: OrderStatusShipped}.IsTerminal())
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.True(t, Address{Street: "Rue de la Loi 1", City: "Bruxelles"}.IsZero())
	assert.False(t, Address{Street: "Rue de la Loi 1", City: "Bruxelles", Country: "BE"}.IsZero())
}
