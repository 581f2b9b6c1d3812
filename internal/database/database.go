package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/headway-clinic/checkin-api/internal/config"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

var DB *gorm.DB

func Connect(cfg *config.Config, log *zap.Logger) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established")
	return nil
}

// Migrate creates the active and archived table namespaces. The archived
// tables mirror the active schemas so the migrator can move rows between
// them without translation.
func Migrate(log *zap.Logger) error {
	if err := MigrateSchema(DB); err != nil {
		return err
	}
	log.Info("Database migrations completed")
	return nil
}

// MigrateSchema runs auto-migration for both namespaces on the given
// handle. Split out from Migrate so tests can prepare an in-memory
// database the same way production does.
func MigrateSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.CheckinSession{},
		&models.SessionResponse{},
		&models.DeviceSession{},
		&models.Invite{},
		&models.Question{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	archived := storage.Archived
	if err := db.Table(archived.Users()).AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", archived.Users(), err)
	}
	if err := db.Table(archived.Sessions()).AutoMigrate(&models.CheckinSession{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", archived.Sessions(), err)
	}
	if err := db.Table(archived.Responses()).AutoMigrate(&models.SessionResponse{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", archived.Responses(), err)
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
