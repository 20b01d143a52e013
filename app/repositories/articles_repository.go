package repositories

import (
	"context"
	"time"

	"github.com/drbijoux/storefront/app/models"
	"gorm.io/gorm"
)

type ArticleRepositoryImpl interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetAll(ctx context.Context, publishedOnly bool) ([]models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Publish(ctx context.Context, id string) (*models.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepositoryImpl {
	return &articleRepository{db}
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&article).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetAll(ctx context.Context, publishedOnly bool) ([]models.Article, error) {
	var articles []models.Article
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	existing, err := r.GetBySlug(ctx, article.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateSlug
	}
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *articleRepository) Publish(ctx context.Context, id string) (*models.Article, error) {
	article, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}
	now := time.Now()
	article.Published = true
	article.PublishedAt = &now
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}
