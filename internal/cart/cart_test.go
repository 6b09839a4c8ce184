package cart

import (
	"testing"

	"farmrent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tractorEntry(quantity int) models.CartItem {
	return models.CartItem{
		Item:      models.CartProduct{ID: 1, Name: "Compact Tractor", PricePerDay: 100},
		Quantity:  quantity,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-04",
	}
}

func TestAdd_MergesByItemID(t *testing.T) {
	items := Add(nil, tractorEntry(1))
	items = Add(items, tractorEntry(2))

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAdd_DistinctItemsGetOwnLines(t *testing.T) {
	pump := models.CartItem{
		Item:     models.CartProduct{ID: 2, Name: "Water Pump", PricePerDay: 20},
		Quantity: 1, StartDate: "2026-03-01", EndDate: "2026-03-02",
	}

	items := Add(nil, tractorEntry(1))
	items = Add(items, pump)

	assert.Len(t, items, 2)
}

func TestAdd_ZeroQuantityDefaultsToOne(t *testing.T) {
	items := Add(nil, tractorEntry(0))

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemove(t *testing.T) {
	items := Add(nil, tractorEntry(1))
	items = Remove(items, 1)

	assert.Empty(t, items)

	// Removing an absent id is a no-op.
	items = Add(nil, tractorEntry(1))
	items = Remove(items, 99)
	assert.Len(t, items, 1)
}

func TestApply_PartialUpdate(t *testing.T) {
	items := Add(nil, tractorEntry(1))

	qty := 5
	end := "2026-03-10"
	ok := Apply(items, 1, Update{Quantity: &qty, EndDate: &end})

	require.True(t, ok)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "2026-03-10", items[0].EndDate)
	// Untouched field keeps its value.
	assert.Equal(t, "2026-03-01", items[0].StartDate)
}

func TestApply_UnknownItem(t *testing.T) {
	items := Add(nil, tractorEntry(1))

	qty := 2
	assert.False(t, Apply(items, 42, Update{Quantity: &qty}))
}

func TestDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"three day rental", "2026-03-01", "2026-03-04", 3},
		{"single day span", "2026-03-01", "2026-03-02", 1},
		{"same day bills one day", "2026-03-01", "2026-03-01", 1},
		{"reversed dates use the absolute difference", "2026-03-04", "2026-03-01", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Days(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Days("not-a-date", "2026-03-01")
	assert.Error(t, err)
}

func TestComputeTotals(t *testing.T) {
	// 3 days at $100/day, quantity 2.
	items := []models.CartItem{tractorEntry(2)}

	totals, err := ComputeTotals(items, 0.08)
	require.NoError(t, err)

	assert.InDelta(t, 600.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 48.0, totals.Tax, 1e-9)
	assert.InDelta(t, 648.0, totals.Total, 1e-9)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals, err := ComputeTotals(nil, 0)
	require.NoError(t, err)
	assert.Zero(t, totals.Total)
}

func TestComputeTotals_DefaultsTaxRate(t *testing.T) {
	totals, err := ComputeTotals([]models.CartItem{tractorEntry(1)}, 0)
	require.NoError(t, err)

	assert.InDelta(t, 300.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 300.0*models.DefaultTaxRate, totals.Tax, 1e-9)
}
