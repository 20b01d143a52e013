package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/drbijoux/storefront/app/configs"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/models/migrations"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/drbijoux/storefront/app/services"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					env := configs.LoadEnv()
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed categories, sample products and the admin account",
				Action: func(ctx context.Context, c *cli.Command) error {
					env := configs.LoadEnv()
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					if err := seed(ctx, db); err != nil {
						return err
					}
					log.Println("✅ Seed complete")
					return nil
				},
			},
			{
				Name:  "sync-products",
				Usage: "Pull the product catalog from Stripe into the local store",
				Action: func(ctx context.Context, c *cli.Command) error {
					env := configs.LoadEnv()
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if !configs.InitStripe(env) {
						return fmt.Errorf("STRIPE_SECRET_KEY is required for sync-products")
					}
					sync := services.NewCatalogSyncService(repositories.NewProductRepository(db), true)
					result, err := sync.Sync(ctx)
					if err != nil {
						return err
					}
					log.Printf("✅ Sync complete: %d created, %d updated, %d skipped", result.Created, result.Updated, result.Skipped)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func seed(ctx context.Context, db *gorm.DB) error {
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)

	categories := []models.Category{
		{Name: "Rings", Slug: "rings", Description: "Statement and everyday rings"},
		{Name: "Necklaces", Slug: "necklaces", Description: "Pendants and chains"},
		{Name: "Earrings", Slug: "earrings", Description: "Studs, hoops and drops"},
		{Name: "Bracelets", Slug: "bracelets", Description: "Bangles and cuffs"},
	}
	categoryIDs := map[string]string{}
	for i := range categories {
		existing, err := categoryRepo.GetBySlug(ctx, categories[i].Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			categoryIDs[existing.Slug] = existing.ID
			continue
		}
		if err := categoryRepo.Create(ctx, &categories[i]); err != nil {
			return err
		}
		categoryIDs[categories[i].Slug] = categories[i].ID
	}

	products := []struct {
		stripeID string
		name     string
		desc     string
		price    string
		category string
		isNew    bool
		isBest   bool
	}{
		{"seed_gold_signet_ring", "Gold Signet Ring", "18k gold-plated signet ring with a brushed face", "89.00", "rings", true, false},
		{"seed_pearl_drop_necklace", "Pearl Drop Necklace", "Freshwater pearl on a fine sterling chain", "120.00", "necklaces", false, true},
		{"seed_twisted_hoops", "Twisted Hoop Earrings", "Hand-twisted hoops in recycled silver", "45.00", "earrings", true, true},
		{"seed_chain_bracelet", "Curb Chain Bracelet", "Chunky curb chain with a toggle clasp", "65.00", "bracelets", false, false},
	}
	for _, p := range products {
		existing, err := productRepo.GetByStripeID(ctx, p.stripeID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return err
		}
		catID := categoryIDs[p.category]
		if err := productRepo.Create(ctx, &models.Product{
			StripeID:     p.stripeID,
			Name:         p.name,
			Description:  p.desc,
			Price:        price,
			CategoryID:   &catID,
			Inventory:    25,
			IsNew:        p.isNew,
			IsBestSeller: p.isBest,
		}); err != nil {
			return err
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@drbijoux.test"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
		log.Println("Warning: ADMIN_PASSWORD not set, seeding admin with default password")
	}

	existingAdmin, err := userRepo.FindByEmail(ctx, adminEmail)
	if err != nil {
		return err
	}
	if existingAdmin == nil {
		admin := &models.User{
			Email:    adminEmail,
			Name:     "Store Admin",
			Password: adminPassword,
			Role:     models.RoleAdmin,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			return err
		}
		log.Printf("Seeded admin account %s", adminEmail)
	}

	return nil
}
