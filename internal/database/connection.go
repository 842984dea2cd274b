// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/models"
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

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.MSA{},
		&models.Contract{},
		&models.ContractSignature{},
		&models.ContractApproval{},
		&models.JobPosting{},
		&models.JobDistribution{},
		&models.ShortlistEntry{},
		&models.BureauMessage{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.WorkflowRule{},
		&models.PlatformSetting{},
		&models.AuditLog{},
		&models.Notification{},
		&models.PlatformAnalytics{},
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
		"CREATE INDEX IF NOT EXISTS idx_users_organization ON users(organization_id)",

		// Organization indexes
		"CREATE INDEX IF NOT EXISTS idx_organizations_type ON organizations(type)",

		// Contract indexes
		"CREATE INDEX IF NOT EXISTS idx_contracts_company ON contracts(company_id)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_bureau ON contracts(bureau_id)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts(status)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_pair_status ON contracts(company_id, bureau_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_created_at ON contracts(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_contract_signatures_contract ON contract_signatures(contract_id)",
		"CREATE INDEX IF NOT EXISTS idx_contract_approvals_contract_status ON contract_approvals(contract_id, status)",

		// MSA indexes
		"CREATE INDEX IF NOT EXISTS idx_msas_pair_status ON msas(company_id, bureau_id, status)",

		// Job and distribution indexes
		"CREATE INDEX IF NOT EXISTS idx_job_postings_company_status ON job_postings(company_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_job_postings_created_at ON job_postings(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_job_distributions_bureau_status ON job_distributions(bureau_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_shortlist_entries_distribution ON shortlist_entries(distribution_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_bureau_messages_distribution ON bureau_messages(distribution_id, created_at DESC)",

		// Subscription indexes
		"CREATE INDEX IF NOT EXISTS idx_subscriptions_org_status ON subscriptions(organization_id, status)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_org ON notifications(recipient_org_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_platform_settings_category ON platform_settings(category, key)",
		"CREATE INDEX IF NOT EXISTS idx_platform_analytics_metric ON platform_analytics(metric_name, metric_date)",
		"CREATE INDEX IF NOT EXISTS idx_platform_analytics_period ON platform_analytics(metric_period, metric_date DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_job_postings_search ON job_postings USING GIN(to_tsvector('english', title || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_contracts_search ON contracts USING GIN(to_tsvector('english', title))",
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
			Username: "admin",
			Email:    "admin@staffhub.io",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
			ProfileData: models.JSONB{
				"first_name": "System",
				"last_name":  "Administrator",
				"role":       "super_admin",
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

	// Create default subscription plans
	defaultPlans := []models.SubscriptionPlan{
		{
			Code:         "starter",
			Name:         "Starter",
			Description:  "Up to 5 open job postings and 3 seats",
			PriceMonthly: 49.0,
			JobPostLimit: 5,
			SeatLimit:    3,
		},
		{
			Code:         "growth",
			Name:         "Growth",
			Description:  "Up to 25 open job postings and 10 seats",
			PriceMonthly: 199.0,
			JobPostLimit: 25,
			SeatLimit:    10,
		},
		{
			Code:         "enterprise",
			Name:         "Enterprise",
			Description:  "Unlimited job postings and seats",
			PriceMonthly: 499.0,
			JobPostLimit: 0,
			SeatLimit:    0,
		},
	}

	for _, plan := range defaultPlans {
		var count int64
		db.Model(&models.SubscriptionPlan{}).Where("code = ?", plan.Code).Count(&count)

		if count == 0 {
			if err := db.Create(&plan).Error; err != nil {
				log.Printf("Warning: Failed to create plan %s: %v", plan.Code, err)
			}
		}
	}

	// Create default platform settings
	defaultSettings := []models.PlatformSetting{
		{
			Category:    "general",
			Key:         "platform_name",
			Value:       models.JSONB{"value": "StaffHub"},
			DataType:    "string",
			Description: "Platform name displayed to users",
		},
		{
			Category:    "contracts",
			Key:         "default_signatures_required",
			Value:       models.JSONB{"value": 2},
			DataType:    "integer",
			Description: "Default signature quorum for new contracts",
		},
		{
			Category:    "msa",
			Key:         "default_fee_percent",
			Value:       models.JSONB{"value": 15.0},
			DataType:    "float",
			Description: "Default bureau fee percentage for new MSAs",
		},
		{
			Category:    "msa",
			Key:         "default_payment_terms_days",
			Value:       models.JSONB{"value": 30},
			DataType:    "integer",
			Description: "Default payment terms in days for new MSAs",
		},
		{
			Category:    "content",
			Key:         "max_file_size",
			Value:       models.JSONB{"value": 20},
			DataType:    "integer",
			Description: "Maximum file size in MB for document uploads",
		},
	}

	for _, setting := range defaultSettings {
		var count int64
		db.Model(&models.PlatformSetting{}).Where("category = ? AND key = ?", setting.Category, setting.Key).Count(&count)

		if count == 0 {
			// Get admin user ID for the UpdatedBy field
			var admin models.User
			if err := db.Where("user_type = ?", models.UserTypeAdmin).First(&admin).Error; err == nil {
				setting.UpdatedBy = admin.ID
				if err := db.Create(&setting).Error; err != nil {
					log.Printf("Warning: Failed to create setting %s.%s: %v", setting.Category, setting.Key, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
