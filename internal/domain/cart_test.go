package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesSameProductAndSize(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 2, Price: 10, Name: "Tee"})
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 3, Price: 10})

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, "p1-M", c.Items[0].CartItemID)
	assert.Equal(t, 50.0, c.TotalAmount)
}

func TestCartAddDifferentSizesStaySeparate(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 1, Price: 10})
	c.Add(CartItem{ProductID: "p1", Size: "L", Quantity: 1, Price: 10})

	require.Len(t, c.Items, 2)
	assert.Equal(t, 20.0, c.TotalAmount)
}

func TestCartAddMatchesOnCartItemID(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", CartItemID: "custom-1", Size: "M", Quantity: 1, Price: 5})
	c.Add(CartItem{ProductID: "p2", CartItemID: "custom-1", Size: "L", Quantity: 2, Price: 99})

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	// merged quantity keeps the existing line's price
	assert.Equal(t, 15.0, c.TotalAmount)
}

func TestCartTotalRounding(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "", Quantity: 3, Price: 0.1})
	assert.Equal(t, 0.3, c.TotalAmount)

	c.Add(CartItem{ProductID: "p2", Size: "", Quantity: 1, Price: 19.999})
	assert.Equal(t, 20.3, c.TotalAmount)
}

func TestCartRemove(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 2, Price: 10})
	c.Add(CartItem{ProductID: "p2", Size: "S", Quantity: 1, Price: 7.5})

	c.Remove("p1-M")
	require.Len(t, c.Items, 1)
	assert.Equal(t, 7.5, c.TotalAmount)

	// fallback match on product id
	c.Remove("p2")
	assert.Empty(t, c.Items)
	assert.Equal(t, 0.0, c.TotalAmount)
}

func TestCartRemoveUnknownIsNoop(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 2, Price: 10})
	c.Remove("nope")
	require.Len(t, c.Items, 1)
	assert.Equal(t, 20.0, c.TotalAmount)
}

func TestCartUpdateQuantity(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 2, Price: 10})

	c.UpdateQuantity("p1-M", 6)
	assert.Equal(t, 6, c.Items[0].Quantity)
	assert.Equal(t, 60.0, c.TotalAmount)

	c.UpdateQuantity("p1-M", 1)
	assert.Equal(t, 10.0, c.TotalAmount)

	// unknown identity leaves everything alone
	c.UpdateQuantity("ghost", 99)
	assert.Equal(t, 10.0, c.TotalAmount)
}

func TestCartClear(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 2, Price: 10})
	c.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, 0.0, c.TotalAmount)
}

func TestCartJSONContract(t *testing.T) {
	var c Cart
	c.Add(CartItem{ProductID: "p1", Size: "M", Quantity: 2, Price: 10, Name: "Tee", Slug: "tee"})

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"items"`)
	assert.Contains(t, string(b), `"totalAmount"`)

	var back Cart
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, c, back)
}

func TestStockRules(t *testing.T) {
	neg := -3
	zero := 0
	three := 3
	fifty := 50

	cases := []struct {
		name       string
		p          Product
		outOfStock bool
		lowStock   bool
		maxAddable int
	}{
		{"unmanaged nil stock", Product{}, false, false, 10},
		{"unmanaged negative stock", Product{StockQuantity: &neg}, false, false, 10},
		{"unmanaged zero stock", Product{StockQuantity: &zero}, false, false, 10},
		{"managed zero", Product{EnableStockManagement: true, StockQuantity: &zero}, true, false, 0},
		{"managed nil treated as zero", Product{EnableStockManagement: true}, true, false, 0},
		{"managed low", Product{EnableStockManagement: true, StockQuantity: &three}, false, true, 3},
		{"managed plenty capped at 10", Product{EnableStockManagement: true, StockQuantity: &fifty}, false, false, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.outOfStock, c.p.IsOutOfStock())
			assert.Equal(t, c.lowStock, c.p.IsLowStock())
			assert.Equal(t, c.maxAddable, c.p.MaxAddable())
		})
	}
}
