package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.Total Tests
// ============================================================================

func TestTotal_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{UnitPrice: 19.99, Quantity: 2},
		},
	}
	assert.InDelta(t, 39.98, c.Total(), 0.0001)
}

func TestTotal_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{UnitPrice: 10, Quantity: 2},
			{UnitPrice: 5, Quantity: 3},
			{UnitPrice: 25, Quantity: 1},
		},
	}
	// 20 + 15 + 25 = 60
	assert.InDelta(t, 60, c.Total(), 0.0001)
}

func TestTotal_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Zero(t, c.Total())
}

// ============================================================================
// Cart.ItemCount Tests
// ============================================================================

func TestItemCount_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{Quantity: 2},
			{Quantity: 3},
			{Quantity: 1},
		},
	}
	assert.Equal(t, 6, c.ItemCount())
}

func TestItemCount_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.ItemCount())
}

// ============================================================================
// Cart.Add Tests
// ============================================================================

func TestAdd_NewItem(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 7, Name: "Mug", UnitPrice: 12.5, Quantity: 1})

	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(7), c.Items[0].ProductID)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestAdd_MergesExistingLine(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 7, Name: "Mug", UnitPrice: 12.5, Quantity: 1})
	c.Add(LineItem{ProductID: 7, Name: "Mug", UnitPrice: 12.5, Quantity: 2})

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAdd_RefreshesNameAndPrice(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 7, Name: "Mug", UnitPrice: 12.5, Quantity: 1})
	c.Add(LineItem{ProductID: 7, Name: "Mug v2", UnitPrice: 14, Quantity: 1})

	assert.Len(t, c.Items, 1)
	assert.Equal(t, "Mug v2", c.Items[0].Name)
	assert.InDelta(t, 14, c.Items[0].UnitPrice, 0.0001)
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 3, Quantity: 1})
	c.Add(LineItem{ProductID: 1, Quantity: 1})
	c.Add(LineItem{ProductID: 2, Quantity: 1})

	assert.Equal(t, int64(3), c.Items[0].ProductID)
	assert.Equal(t, int64(1), c.Items[1].ProductID)
	assert.Equal(t, int64(2), c.Items[2].ProductID)
}

// ============================================================================
// Cart.Remove / SetQuantity Tests
// ============================================================================

func TestRemove_ExistingLine(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 1, Quantity: 1})
	c.Add(LineItem{ProductID: 2, Quantity: 1})

	assert.True(t, c.Remove(1))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(2), c.Items[0].ProductID)
}

func TestRemove_MissingLine(t *testing.T) {
	c := &Cart{}
	assert.False(t, c.Remove(42))
}

func TestSetQuantity_ExistingLine(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 1, Quantity: 1})

	assert.True(t, c.SetQuantity(1, 5))
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestSetQuantity_MissingLine(t *testing.T) {
	c := &Cart{}
	assert.False(t, c.SetQuantity(42, 5))
}

// ============================================================================
// Cart.Clone Tests
// ============================================================================

func TestClone_IsIndependent(t *testing.T) {
	c := &Cart{}
	c.Add(LineItem{ProductID: 1, Quantity: 1})

	clone := c.Clone()
	assert.NotSame(t, c, clone)

	clone.Items[0].Quantity = 99
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestClone_EmptyCartHasNonNilItems(t *testing.T) {
	c := &Cart{}
	clone := c.Clone()
	assert.NotNil(t, clone.Items)
	assert.Empty(t, clone.Items)
}
