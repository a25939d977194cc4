package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{Quantity: 3, PriceAtAddition: 9.99}
	assert.InDelta(t, 29.97, item.Subtotal(), 0.001)
}

func TestCartItemsTotal(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, PriceAtAddition: 10},
		{Quantity: 1, PriceAtAddition: 5.50},
	}
	assert.InDelta(t, 25.50, CartItemsTotal(items), 0.001)
	assert.Zero(t, CartItemsTotal(nil))
}

func TestMergeCartItem_LigneExistante(t *testing.T) {
	variantID := primitive.NewObjectID()
	items := []CartItem{
		{VariantID: variantID, Quantity: 2, PriceAtAddition: 10},
	}

	merged, found := MergeCartItem(items, variantID, 3)
	assert.True(t, found)
	// une seule ligne par variante, les quantités s'additionnent
	assert.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].Quantity)
}

func TestMergeCartItem_NouvelleVariante(t *testing.T) {
	items := []CartItem{
		{VariantID: primitive.NewObjectID(), Quantity: 2},
	}

	merged, found := MergeCartItem(items, primitive.NewObjectID(), 1)
	assert.False(t, found)
	assert.Len(t, merged, 1)
}
