package storage

import (
	"booking-restaurant-server/config"
	"booking-restaurant-server/models"

	"github.com/kataras/golog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func connectToDB(cfg config.DatabaseConfig) *gorm.DB {
	if cfg.DSN == "" {
		golog.Fatal("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if dbError != nil {
		golog.Fatalf("error connection to db: %v", dbError)
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{}, // create table containing many side first
		&models.MenuItem{},
		&models.Promotion{},
		&models.Reservation{},
		&models.Order{},
		&models.OrderItem{},
		&models.RestaurantReport{},
		&models.Review{},
		&models.FavoriteRestaurant{},
		&models.ViewLog{},
		&models.SearchLog{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		golog.Fatalf("migration failed: %v", err)
	}
}

func InitializeDB(cfg config.DatabaseConfig) *gorm.DB {
	db := connectToDB(cfg)
	performMigrations(db)
	golog.Info("🗄️  database connected and migrated")
	return db
}
