package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// CartService owns the server-side cart rows. The owner id is either an
// authenticated user id or a guest session cart id; ownership checks answer
// "not found" for rows held by anyone else.
type CartService struct {
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(cartItemRepo repositories.CartItemRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CartService {
	return &CartService{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (s *CartService) GetCart(ctx context.Context, ownerID string) ([]models.CartItem, error) {
	items, err := s.cartItemRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// AddItem merges by sum: adding a product already in the cart bumps the
// existing line's quantity instead of appending a second line.
func (s *CartService) AddItem(ctx context.Context, ownerID, productID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.cartItemRepo.GetByOwnerAndProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	if existing != nil {
		existing.Quantity += qty
		existing.UpdatedAt = time.Now()
		if err := s.cartItemRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		existing.Product = product
		return existing, nil
	}

	item := &models.CartItem{
		UserID:    ownerID,
		ProductID: productID,
		Quantity:  qty,
	}
	if err := s.cartItemRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	item.Product = product
	return item, nil
}

// UpdateQuantity sets an absolute quantity on an owned line.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID, itemID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cartItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil || item.UserID != ownerID {
		return nil, ErrCartItemNotFound
	}

	item.Quantity = qty
	item.UpdatedAt = time.Now()
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, ownerID, itemID string) error {
	item, err := s.cartItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil || item.UserID != ownerID {
		return ErrCartItemNotFound
	}
	return s.cartItemRepo.Delete(ctx, itemID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	return s.cartItemRepo.ClearByOwner(ctx, ownerID)
}

// MergeGuestCart folds a guest session cart into an authenticated user's
// cart (merge-by-sum per product) and drops the guest rows. Called on login
// and registration; this is the anonymous-to-authenticated merge rule.
func (s *CartService) MergeGuestCart(ctx context.Context, guestID, userID string) error {
	if guestID == "" || guestID == userID {
		return nil
	}

	guestItems, err := s.cartItemRepo.GetByOwner(ctx, guestID)
	if err != nil {
		return fmt.Errorf("failed to load guest cart: %w", err)
	}

	for _, item := range guestItems {
		if _, err := s.AddItem(ctx, userID, item.ProductID, item.Quantity); err != nil {
			log.Printf("CartService: failed to merge guest cart line %s: %v", item.ID, err)
		}
	}
	if err := s.cartItemRepo.ClearByOwner(ctx, guestID); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}

// CartTotals derives the item count and price sum from a set of lines. Both
// values are always recomputed from the lines, never cached.
func CartTotals(items []models.CartItem) (totalItems int, totalPrice decimal.Decimal) {
	totalPrice = decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		if item.Product != nil {
			line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totalPrice = totalPrice.Add(line)
		}
	}
	return totalItems, totalPrice
}
