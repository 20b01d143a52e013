package repositories

import (
	"context"

	"github.com/drbijoux/storefront/app/models"
	"gorm.io/gorm"
)

type NewsletterRepositoryImpl interface {
	FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error
	GetAll(ctx context.Context) ([]models.NewsletterSubscriber, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepositoryImpl {
	return &newsletterRepository{db}
}

func (r *newsletterRepository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &subscriber, nil
}

func (r *newsletterRepository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	existing, err := r.FindByEmail(ctx, subscriber.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateEmail
	}
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *newsletterRepository) GetAll(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	var subscribers []models.NewsletterSubscriber
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}
