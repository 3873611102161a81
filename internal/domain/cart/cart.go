package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// Sentinel errors for cart mutations.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one product/quantity pairing in a shopping cart.
type Line struct {
	ProductID int64
	Qty       int
}

// Cart is an ordered sequence of lines. Each product appears at most once;
// adding a product that is already present merges into the existing line.
type Cart struct {
	Lines []Line
}

// Add merges qty into an existing line for the product, or appends a new line
// at the end of the cart.
func (c *Cart) Add(productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Qty += qty
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Qty: qty})
	return nil
}

// SetQty replaces the quantity of an existing line.
func (c *Cart) SetQty(productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Qty = qty
			return nil
		}
	}
	return ErrLineNotFound
}

// Remove deletes the line for the product, preserving the order of the rest.
func (c *Cart) Remove(productID int64) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Count returns the total quantity across all lines.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Qty
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ProductIDs returns the product IDs in cart order.
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

// Repository defines persistence for a user's cart.
type Repository interface {
	Get(ctx context.Context, userID int64) (*Cart, error)
	Save(ctx context.Context, userID int64, c *Cart) error
	Clear(ctx context.Context, userID int64) error
}
