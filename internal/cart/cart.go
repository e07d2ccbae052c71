package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/internal/catalog"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
)

// Line is one cart entry. Identity is (ItemID, Kind): the same id can appear
// once as a service line and once as a combo line.
type Line struct {
	ItemID     string          `json:"item_id"`
	Kind       enums.ItemKind  `json:"kind"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit *int            `json:"stock_limit,omitempty"`
}

// LineTotal is UnitPrice times Quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines of one register session. Not safe for concurrent use;
// the owning session serializes access.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) findLine(itemID string, kind enums.ItemKind) int {
	for i, line := range c.lines {
		if line.ItemID == itemID && line.Kind == kind {
			return i
		}
	}
	return -1
}

// AddItem merges into an existing line, or appends a new line with quantity 1.
// A negative unit price is rejected so the subtotal can never go below zero.
// Stock-limited items reject an increment past the limit and leave the cart
// unchanged.
func (c *Cart) AddItem(item catalog.Item) error {
	if item.FinalPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%q has a negative price", item.Name))
	}
	if idx := c.findLine(item.ID, item.Kind); idx >= 0 {
		line := &c.lines[idx]
		if line.StockLimit != nil && line.Quantity+1 > *line.StockLimit {
			return stockError(line.Name, *line.StockLimit)
		}
		line.Quantity++
		return nil
	}

	if item.Stock != nil && *item.Stock < 1 {
		return stockError(item.Name, *item.Stock)
	}
	c.lines = append(c.lines, Line{
		ItemID:     item.ID,
		Kind:       item.Kind,
		Name:       item.Name,
		UnitPrice:  item.FinalPrice,
		Quantity:   1,
		StockLimit: copyIntPtr(item.Stock),
	})
	return nil
}

// UpdateQuantity replaces a line's quantity. A quantity of zero or less
// removes the line. A quantity past the stock limit is rejected with the cart
// unchanged. Unknown lines are a no-op.
func (c *Cart) UpdateQuantity(itemID string, kind enums.ItemKind, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(itemID, kind)
		return nil
	}
	idx := c.findLine(itemID, kind)
	if idx < 0 {
		return nil
	}
	line := &c.lines[idx]
	if line.StockLimit != nil && quantity > *line.StockLimit {
		return stockError(line.Name, *line.StockLimit)
	}
	line.Quantity = quantity
	return nil
}

// RemoveItem drops the matching line. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(itemID string, kind enums.ItemKind) {
	idx := c.findLine(itemID, kind)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount sums quantities across lines. Always recomputed.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal sums line totals. Always recomputed.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// Snapshot is the serialized cart shape written to Redis so a terminal can
// resume its cart after a restart.
type Snapshot struct {
	Lines []Line `json:"lines"`
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Lines: c.Lines()}
}

// Restore replaces the cart contents with a previously taken snapshot.
func (c *Cart) Restore(snapshot Snapshot) {
	c.lines = make([]Line, len(snapshot.Lines))
	copy(c.lines, snapshot.Lines)
}

func stockError(name string, limit int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("only %d of %q in stock", limit, name))
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
