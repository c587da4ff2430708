package db

import (
	"gamerash/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// AutoMigrate creates tables, foreign keys, constraints, columns and indexes
// for the full storefront schema. Shared by the migrate command and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Admin{},
		&domain.Developer{},
		&domain.Game{},
		&domain.GameReview{},
		&domain.Purchase{},
		&domain.Payment{},
		&domain.Library{},
		&domain.Wishlist{},
	)
}

// Migrate connects to MySQL, migrates the schema and seeds an empty database
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	if err := Seed(db); err != nil {
		logrus.Fatalf("seeding failed: %v", err) // Log fatal error if seeding fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// Seed inserts the initial catalog into an empty database: an admin, a
// developer studio with two games, and a regular player account.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Already seeded
	}
	hash := func(pw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		return string(h)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		adminUser := domain.User{Username: "admin_user", Password: hash("admin123"), Email: "admin@gamingplatform.com"}
		devUser := domain.User{Username: "dev_studio", Password: hash("dev123456"), Email: "dev@studio.com"}
		gamerUser := domain.User{Username: "gamer_one", Password: hash("gamer123"), Email: "gamer@email.com"}
		for _, u := range []*domain.User{&adminUser, &devUser, &gamerUser} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&domain.Admin{UserID: adminUser.ID}).Error; err != nil {
			return err
		}
		dev := domain.Developer{UserID: devUser.ID, StudioName: "Awesome Games Studio", Bio: "We create amazing indie games!"}
		if err := tx.Create(&dev).Error; err != nil {
			return err
		}
		games := []domain.Game{
			{DeveloperID: dev.ID, Title: "Epic Adventure", Description: "An amazing RPG adventure game", CoverImage: "epic_adventure_cover.jpg", Price: 59.99},
			{DeveloperID: dev.ID, Title: "Space Explorer", Description: "Explore the vast universe", CoverImage: "space_explorer_cover.jpg", Price: 49.99},
		}
		for i := range games {
			if err := tx.Create(&games[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
