package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesExistingLine(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(1, 1))
	require.NoError(t, c.Add(2, 3))
	require.NoError(t, c.Add(1, 2))

	require.Len(t, c.Lines, 2)
	assert.Equal(t, Line{ProductID: 1, Qty: 3}, c.Lines[0])
	assert.Equal(t, Line{ProductID: 2, Qty: 3}, c.Lines[1])
	assert.Equal(t, 6, c.Count())
}

func TestCart_AddRejectsNonPositiveQty(t *testing.T) {
	var c Cart
	assert.ErrorIs(t, c.Add(1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(1, -2), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestCart_SetQty(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(1, 1))

	require.NoError(t, c.SetQty(1, 5))
	assert.Equal(t, 5, c.Lines[0].Qty)

	assert.ErrorIs(t, c.SetQty(1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQty(99, 1), ErrLineNotFound)
}

func TestCart_RemovePreservesOrder(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(1, 1))
	require.NoError(t, c.Add(2, 1))
	require.NoError(t, c.Add(3, 1))

	require.NoError(t, c.Remove(2))
	assert.Equal(t, []int64{1, 3}, c.ProductIDs())

	assert.ErrorIs(t, c.Remove(2), ErrLineNotFound)
}

func TestCart_Clear(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(1, 4))
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count())
}
