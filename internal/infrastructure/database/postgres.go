package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shifacare/medstore-api/internal/config"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/pkg/utils"
)

// NewPostgresDB creates a new PostgreSQL database connection.
// TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey; the invoice repository depends on that to
// detect invoice-number collisions.
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Medicine{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Donation{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// defaultCategories are created on first startup so the catalog is
// usable before anyone curates their own set.
var defaultCategories = []string{
	"Analgesics",
	"Antibiotics",
	"Antihistamines",
	"Cardiovascular",
	"Dermatology",
	"Gastrointestinal",
	"Supplements",
	"Syrups",
}

// SeedDefaultData seeds default categories and, if configured through
// ADMIN_EMAIL/ADMIN_PASSWORD, the first admin account.
func SeedDefaultData(db *gorm.DB, adminCfg *config.AdminConfig) error {
	log.Println("Seeding default data...")

	for _, name := range defaultCategories {
		var existing entity.Category
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			category := entity.Category{Name: name, Slug: utils.Slugify(name)}
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", name, err)
			}
		}
	}

	if adminCfg.Email != "" && adminCfg.Password != "" {
		var existing entity.User
		if err := db.Where("email = ?", adminCfg.Email).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminCfg.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				name := adminCfg.Name
				if name == "" {
					name = "Store Admin"
				}
				admin := entity.User{
					FullName: name,
					Email:    adminCfg.Email,
					Password: string(hashed),
					Role:     entity.RoleAdmin,
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminCfg.Email)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminCfg.Email)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
