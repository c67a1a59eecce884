// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Song{},
		&models.Playlist{},
		&models.RightsRequest{},
		&models.License{},
		&models.Campaign{},
		&models.Contribution{},
		&models.IssueReport{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",

		// Song indexes
		"CREATE INDEX IF NOT EXISTS idx_songs_uploader ON songs(uploader_id)",
		"CREATE INDEX IF NOT EXISTS idx_songs_genre_status ON songs(genre, status)",
		"CREATE INDEX IF NOT EXISTS idx_songs_created_at ON songs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_songs_plays ON songs(plays DESC)",

		// Rights request indexes
		"CREATE INDEX IF NOT EXISTS idx_rights_requests_song ON rights_requests(song_id)",
		"CREATE INDEX IF NOT EXISTS idx_rights_requests_requestor ON rights_requests(requestor_id)",
		"CREATE INDEX IF NOT EXISTS idx_rights_requests_status ON rights_requests(status)",

		// License indexes
		"CREATE INDEX IF NOT EXISTS idx_licenses_song ON licenses(song_id)",
		"CREATE INDEX IF NOT EXISTS idx_licenses_licensee ON licenses(licensee_id)",
		"CREATE INDEX IF NOT EXISTS idx_licenses_status ON licenses(status)",

		// Campaign indexes
		"CREATE INDEX IF NOT EXISTS idx_campaigns_song_status ON campaigns(song_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_contributions_campaign ON contributions(campaign_id)",
		"CREATE INDEX IF NOT EXISTS idx_contributions_contributor ON contributions(contributor_id)",

		// Report and audit indexes
		"CREATE INDEX IF NOT EXISTS idx_issue_reports_status ON issue_reports(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username:    "admin",
			Email:       "admin@tunetrust.io",
			DisplayName: "System Administrator",
			UserType:    models.UserTypeAdmin,
			Status:      models.UserStatusActive,
			ProfileData: models.JSONB{
				"role": "super_admin",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}
