package repositories

import (
	"context"

	"github.com/drbijoux/storefront/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByStripeID(ctx context.Context, stripeID string) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategorySlug(ctx context.Context, slug string) ([]models.Product, error)
	GetBestSellers(ctx context.Context, limit int) ([]models.Product, error)
	GetNew(ctx context.Context, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	UpdateMetadata(ctx context.Context, id string, update models.ProductMetadataUpdate) (*models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByStripeID(ctx context.Context, stripeID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("stripe_id = ?", stripeID).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.slug = ?", slug).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetBestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Where("is_best_seller = ?", true)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetNew(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Where("is_new = ?", true)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) UpdateMetadata(ctx context.Context, id string, update models.ProductMetadataUpdate) (*models.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if update.IsNew != nil {
		product.IsNew = *update.IsNew
	}
	if update.IsBestSeller != nil {
		product.IsBestSeller = *update.IsBestSeller
	}
	if update.IsLimited != nil {
		product.IsLimited = *update.IsLimited
	}
	if update.CategoryID != nil {
		product.CategoryID = update.CategoryID
	}

	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}
