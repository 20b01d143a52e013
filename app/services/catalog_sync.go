package services

import (
	"context"
	"fmt"
	"log"

	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/product"
)

// SyncResult summarizes one catalog sync run.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// CatalogSyncService pulls the product catalog from the payment processor
// and mirrors it into the local store. The processor remains the source of
// truth for name, description, price and images; local merchandising flags
// and category assignments survive a sync untouched.
type CatalogSyncService struct {
	productRepo repositories.ProductRepositoryImpl
	enabled     bool
}

func NewCatalogSyncService(productRepo repositories.ProductRepositoryImpl, enabled bool) *CatalogSyncService {
	return &CatalogSyncService{productRepo: productRepo, enabled: enabled}
}

// Sync fetches all active processor products and upserts them by their
// processor id. Products without a default price are skipped.
func (s *CatalogSyncService) Sync(ctx context.Context) (*SyncResult, error) {
	if !s.enabled {
		return nil, ErrProcessorNotConfigured
	}

	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.AddExpand("data.default_price")

	result := &SyncResult{}
	iter := product.List(params)
	for iter.Next() {
		p := iter.Product()
		if p.DefaultPrice == nil || p.DefaultPrice.UnitAmount == 0 {
			log.Printf("CatalogSyncService: product %s (%s) has no usable default price, skipping", p.ID, p.Name)
			result.Skipped++
			continue
		}

		price := decimal.New(p.DefaultPrice.UnitAmount, -2)

		existing, err := s.productRepo.GetByStripeID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up product %s: %w", p.ID, err)
		}

		if existing == nil {
			np := productFromStripe(p, price)
			if err := s.productRepo.Create(ctx, np); err != nil {
				return nil, fmt.Errorf("failed to create product %s: %w", p.ID, err)
			}
			result.Created++
			continue
		}

		existing.Name = p.Name
		existing.Description = p.Description
		existing.Price = price
		existing.Images = p.Images
		if err := s.productRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update product %s: %w", p.ID, err)
		}
		result.Updated++
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list processor products: %w", err)
	}

	log.Printf("CatalogSyncService: sync done, %d created, %d updated, %d skipped", result.Created, result.Updated, result.Skipped)
	return result, nil
}

func productFromStripe(p *stripe.Product, price decimal.Decimal) *models.Product {
	np := &models.Product{
		StripeID:    p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Images:      p.Images,
	}
	if len(p.Metadata) > 0 {
		np.Metadata = p.Metadata
	}
	return np
}
