package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_MergesDuplicates(t *testing.T) {
	lines := Aggregate([]CheckoutItemRequest{
		{PriceID: "price_1", Quantity: 2},
		{PriceID: "price_2", Quantity: 0},
		{PriceID: "price_1", Quantity: 1},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, LineItem{PriceID: "price_1", Quantity: 3}, lines[0])
	assert.Equal(t, LineItem{PriceID: "price_2", Quantity: 1}, lines[1])
}

func TestAggregate_SanitizesQuantities(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int64
	}{
		{"fractional floors down", 2.7, 2},
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -5, 1},
		{"fraction below one clamps to one", 0.4, 1},
		{"negative fraction clamps to one", -0.4, 1},
		{"integral passes through", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Aggregate([]CheckoutItemRequest{{PriceID: "price_x", Quantity: tt.in}})
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Quantity)
		})
	}
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	lines := Aggregate([]CheckoutItemRequest{
		{PriceID: "price_c", Quantity: 1},
		{PriceID: "price_a", Quantity: 1},
		{PriceID: "price_c", Quantity: 1},
		{PriceID: "price_b", Quantity: 1},
	})

	require.Len(t, lines, 3)
	assert.Equal(t, "price_c", lines[0].PriceID)
	assert.Equal(t, "price_a", lines[1].PriceID)
	assert.Equal(t, "price_b", lines[2].PriceID)
}

func TestAggregate_OrderIndependentTotals(t *testing.T) {
	items := []CheckoutItemRequest{
		{PriceID: "price_1", Quantity: 2.9},
		{PriceID: "price_2", Quantity: -1},
		{PriceID: "price_1", Quantity: 4},
		{PriceID: "price_3", Quantity: 0.5},
		{PriceID: "price_2", Quantity: 7},
	}

	totals := func(lines []LineItem) map[string]int64 {
		m := make(map[string]int64, len(lines))
		for _, l := range lines {
			m[l.PriceID] = l.Quantity
		}
		return m
	}

	want := totals(Aggregate(items))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]CheckoutItemRequest, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, totals(Aggregate(shuffled)))
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	items := []CheckoutItemRequest{
		{PriceID: "price_1", Quantity: 1},
		{PriceID: "price_2", Quantity: 2},
		{PriceID: "price_1", Quantity: 3},
	}

	first := Aggregate(items)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Aggregate(items))
	}
}

func TestAggregate_OutputSetMatchesInputSet(t *testing.T) {
	items := []CheckoutItemRequest{
		{PriceID: "price_a", Quantity: 1},
		{PriceID: "price_b", Quantity: 2},
		{PriceID: "price_a", Quantity: 3},
		{PriceID: "price_c", Quantity: 4},
	}

	lines := Aggregate(items)

	seen := make(map[string]bool)
	for _, l := range lines {
		assert.False(t, seen[l.PriceID], "duplicate priceId %s in output", l.PriceID)
		seen[l.PriceID] = true
		assert.GreaterOrEqual(t, l.Quantity, int64(1))
	}
	assert.Len(t, seen, 3)
	for _, item := range items {
		assert.True(t, seen[item.PriceID])
	}
}
