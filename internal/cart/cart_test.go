package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonworks/pos-terminal/internal/catalog"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
)

func intPtr(v int) *int { return &v }

func serviceItem(id string, price int64) catalog.Item {
	return catalog.Item{
		ID:         id,
		Kind:       enums.ItemKindService,
		Name:       "Service " + id,
		FinalPrice: decimal.NewFromInt(price),
	}
}

func comboItem(id string, price int64, stock *int) catalog.Item {
	return catalog.Item{
		ID:         id,
		Kind:       enums.ItemKindCombo,
		Name:       "Combo " + id,
		FinalPrice: decimal.NewFromInt(price),
		Stock:      stock,
	}
}

func TestAddItemMergesByIdentity(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, c.ItemCount())
}

func TestSameIDDifferentKindAreSeparateLines(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("x-1", 100)))
	require.NoError(t, c.AddItem(comboItem("x-1", 250, nil)))

	require.Len(t, c.Lines(), 2)
	assert.Equal(t, 2, c.ItemCount())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(350)))
}

func TestSubtotalAndItemCountScenario(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.AddItem(comboItem("cmb-1", 150, nil)))

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(350)))
	assert.Equal(t, 3, c.ItemCount())
}

func TestAddItemStockLimit(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(comboItem("cmb-1", 150, intPtr(2))))
	require.NoError(t, c.AddItem(comboItem("cmb-1", 150, intPtr(2))))

	err := c.AddItem(comboItem("cmb-1", 150, intPtr(2)))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.As(err).Code())

	// State unchanged by the rejected add.
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItemRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	c := New()
	err := c.AddItem(serviceItem("svc-1", -50))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
}

func TestAddItemRejectsDepletedStock(t *testing.T) {
	t.Parallel()

	c := New()
	err := c.AddItem(comboItem("cmb-1", 150, intPtr(0)))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.As(err).Code())
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityReplaces(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.UpdateQuantity("svc-1", enums.ItemKindService, 5))

	assert.Equal(t, 5, c.ItemCount())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(500)))
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.UpdateQuantity("svc-1", enums.ItemKindService, 0))

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
}

func TestUpdateQuantityStockBreachLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(comboItem("cmb-1", 150, intPtr(3))))

	err := c.UpdateQuantity("cmb-1", enums.ItemKindCombo, 4)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.As(err).Code())

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.UpdateQuantity("missing", enums.ItemKindService, 3))
	assert.True(t, c.IsEmpty())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))

	c.RemoveItem("svc-1", enums.ItemKindService)
	assert.True(t, c.IsEmpty())

	c.RemoveItem("svc-1", enums.ItemKindService)
	assert.True(t, c.IsEmpty())
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.AddItem(comboItem("cmb-1", 150, nil)))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.Subtotal().IsZero())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))
	require.NoError(t, c.AddItem(comboItem("cmb-1", 150, intPtr(5))))

	encoded, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(encoded, &snapshot))

	restored := New()
	restored.Restore(snapshot)

	assert.Equal(t, 3, restored.ItemCount())
	assert.True(t, restored.Subtotal().Equal(decimal.NewFromInt(350)))
	lines := restored.Lines()
	require.Len(t, lines, 2)
	require.NotNil(t, lines[1].StockLimit)
	assert.Equal(t, 5, *lines[1].StockLimit)
}

func TestLinesReturnsCopy(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddItem(serviceItem("svc-1", 100)))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.ItemCount())
}
