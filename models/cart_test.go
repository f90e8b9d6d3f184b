package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAdd(t *testing.T) {
	cart := NewCart()
	pack := Product{ID: "1", Name: "Gran Pack", Price: 58000, Stock: 15}
	veggie := Product{ID: "2", Name: "Caja Huerta", Price: 32000, Stock: 25}

	require.NoError(t, cart.Add(pack, 1))
	require.NoError(t, cart.Add(veggie, 2))
	require.NoError(t, cart.Add(pack, 1)) // increments existing line

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "1", cart.Lines[0].ProductID, "insertion order preserved")
	assert.Equal(t, 4, cart.ItemCount())

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.Error(t, cart.Add(pack, 0))
		assert.Error(t, cart.Add(pack, -1))
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(Product{ID: "1", Name: "Pack", Price: 58000}, 2))

	t.Run("increment", func(t *testing.T) {
		removed, found := cart.UpdateQuantity("1", 1)
		assert.True(t, found)
		assert.False(t, removed)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
	})

	t.Run("decrement to zero removes the line", func(t *testing.T) {
		removed, found := cart.UpdateQuantity("1", -3)
		assert.True(t, found)
		assert.True(t, removed)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown product", func(t *testing.T) {
		_, found := cart.UpdateQuantity("missing", 1)
		assert.False(t, found)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(Product{ID: "1", Price: 100}, 1))
	require.NoError(t, cart.Add(Product{ID: "2", Price: 200}, 1))

	assert.True(t, cart.Remove("1"))
	assert.False(t, cart.Remove("1"))
	require.Len(t, cart.Lines, 1)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

func TestCartRoundTrip(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(Product{ID: "1", Name: "Pack", Price: 58000}, 2))
	require.NoError(t, cart.Add(Product{ID: "2", Name: "Caja", Price: 32000}, 1))

	payload, err := EncodeCart(cart)
	require.NoError(t, err)

	decoded, err := DecodeCart(payload)
	require.NoError(t, err)
	assert.Equal(t, cart.Lines, decoded.Lines)
}

func TestDecodeCartCorruptPayloads(t *testing.T) {
	payloads := map[string]string{
		"not json":          "{{{",
		"zero quantity":     `{"lines":[{"productId":"1","unitPrice":100,"quantity":0}]}`,
		"negative quantity": `{"lines":[{"productId":"1","unitPrice":100,"quantity":-2}]}`,
		"negative price":    `{"lines":[{"productId":"1","unitPrice":-100,"quantity":1}]}`,
		"empty product id":  `{"lines":[{"productId":"","unitPrice":100,"quantity":1}]}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCart(payload)
			assert.Error(t, err)
		})
	}

	t.Run("empty object decodes to empty cart", func(t *testing.T) {
		cart, err := DecodeCart(`{}`)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.NotNil(t, cart.Lines)
	})
}
