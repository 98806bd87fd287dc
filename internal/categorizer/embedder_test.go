package categorizer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder(t *testing.T) {
	ctx := context.Background()
	h := NewHashEmbedder()

	a, err := h.Embed(ctx, "ATM cash withdrawal")
	require.NoError(t, err)
	require.Len(t, a, DefaultHashDims)

	again, _ := h.Embed(ctx, "atm CASH withdrawal")
	assert.Equal(t, a, again, "case-insensitive and deterministic")

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)

	near, _ := h.Embed(ctx, "cash withdrawal at atm")
	far, _ := h.Embed(ctx, "netflix subscription")
	assert.Greater(t, Cosine(a, near), Cosine(a, far))

	empty, _ := h.Embed(ctx, "  ")
	assert.Zero(t, Cosine(a, empty))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, Cosine(nil, nil))
}
