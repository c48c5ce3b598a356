package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_DecodesAnyValue(t *testing.T) {
	tests := []struct {
		body string
		want int
		ok   bool
	}{
		{`{"product":"p","quantity":3}`, 3, true},
		{`{"product":"p","quantity":"3"}`, 0, false},
		{`{"product":"p","quantity":"abc"}`, 0, false},
		{`{"product":"p","quantity":1.5}`, 0, false},
		{`{"product":"p","quantity":0}`, 0, false},
		{`{"product":"p","quantity":null}`, 0, false},
		{`{"product":"p"}`, 0, false},
	}
	for _, tt := range tests {
		var item CartItemRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &item), tt.body)
		n, ok := item.Quantity.Int()
		assert.Equal(t, tt.ok, ok, tt.body)
		assert.Equal(t, tt.want, n, tt.body)
	}
}

func TestQuantity_MarshalsRawValue(t *testing.T) {
	out, err := json.Marshal(CartItemRequest{Product: "p", Quantity: Quantity("2")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"product":"p","quantity":2}`, string(out))

	out, err = json.Marshal(CartItemRequest{Product: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"product":"p","quantity":null}`, string(out))
}
