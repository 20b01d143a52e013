package services

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// CartLine is one (product, quantity) pairing held by a shopper.
type CartLine struct {
	ID        string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Cart is the in-session cart aggregate. Local state answers immediately and
// is the source of truth for anonymous shoppers; once authenticated, every
// mutation is mirrored to the server best-effort (failures are logged, not
// surfaced) and Initialize adopts the server's rows, making the server
// authoritative across devices.
type Cart struct {
	mu     sync.Mutex
	lines  []CartLine
	userID string
	svc    *CartService

	totalItems int
	totalPrice decimal.Decimal
}

func NewCart(svc *CartService, userID string) *Cart {
	return &Cart{
		svc:        svc,
		userID:     userID,
		totalPrice: decimal.Zero,
	}
}

// Initialize merges any locally held lines into the server cart and then
// replaces local state with the server's rows. No-op for anonymous carts.
func (c *Cart) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.authenticated() {
		return nil
	}

	for _, line := range c.lines {
		if _, err := c.svc.AddItem(ctx, c.userID, line.ProductID, line.Quantity); err != nil {
			log.Printf("Cart: failed to push local line %s to server: %v", line.ProductID, err)
		}
	}

	items, err := c.svc.GetCart(ctx, c.userID)
	if err != nil {
		return err
	}

	c.lines = c.lines[:0]
	for _, item := range items {
		line := CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Price = item.Product.Price
		}
		c.lines = append(c.lines, line)
	}
	c.recompute()
	return nil
}

// AddItem merges by sum when a line for the same product already exists.
func (c *Cart) AddItem(line CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := false
	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.lines = append(c.lines, line)
	}
	c.recompute()

	c.syncAsync(func(ctx context.Context) error {
		_, err := c.svc.AddItem(ctx, c.userID, line.ProductID, line.Quantity)
		return err
	})
}

func (c *Cart) RemoveItem(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	c.recompute()

	c.syncAsync(func(ctx context.Context) error {
		return c.svc.RemoveItem(ctx, c.userID, lineID)
	})
}

// UpdateQuantity sets an absolute quantity. Callers clamp to >= 1 themselves.
func (c *Cart) UpdateQuantity(lineID string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = qty
			break
		}
	}
	c.recompute()

	c.syncAsync(func(ctx context.Context) error {
		_, err := c.svc.UpdateQuantity(ctx, c.userID, lineID, qty)
		return err
	})
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = c.lines[:0]
	c.recompute()

	c.syncAsync(func(ctx context.Context) error {
		return c.svc.Clear(ctx, c.userID)
	})
}

func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalItems
}

func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPrice
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) authenticated() bool {
	return c.svc != nil && c.userID != ""
}

// recompute refreshes the derived totals. Called under the lock after every
// mutation so the totals never go stale.
func (c *Cart) recompute() {
	items := 0
	price := decimal.Zero
	for _, line := range c.lines {
		items += line.Quantity
		price = price.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	c.totalItems = items
	c.totalPrice = price
}

// syncAsync mirrors a mutation to the server without blocking the caller.
// Sync failures are logged only; the local cart stays usable.
func (c *Cart) syncAsync(fn func(ctx context.Context) error) {
	if !c.authenticated() {
		return
	}
	go func() {
		if err := fn(context.Background()); err != nil {
			log.Printf("Cart: server sync failed for user %s: %v", c.userID, err)
		}
	}()
}
