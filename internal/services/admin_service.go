// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalUsers           int64   `json:"total_users"`
	ActiveUsers          int64   `json:"active_users"`
	TotalCompanies       int64   `json:"total_companies"`
	TotalBureaus         int64   `json:"total_bureaus"`
	TotalContracts       int64   `json:"total_contracts"`
	ActiveContracts      int64   `json:"active_contracts"`
	ContractsThisMonth   int64   `json:"contracts_this_month"`
	PendingSignatures    int64   `json:"pending_signatures"`
	ActiveMSAs           int64   `json:"active_msas"`
	OpenJobs             int64   `json:"open_jobs"`
	HiresThisMonth       int64   `json:"hires_this_month"`
	MonthlyRevenue       float64 `json:"monthly_revenue"`
	ContractGrowth       float64 `json:"contract_growth"`
	HireGrowth           float64 `json:"hire_growth"`
	ActiveSubscriptions  int64   `json:"active_subscriptions"`
	TrialSubscriptions   int64   `json:"trial_subscriptions"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	UserType      *models.UserType   `json:"user_type,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type AdminAuditFilter struct {
	utils.PaginationParams
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Action       string     `json:"action,omitempty"`
	ResourceType string     `json:"resource_type,omitempty"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// User and organization statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.Organization{}).Where("type = ?", models.OrganizationTypeCompany).Count(&stats.TotalCompanies)
	s.db.Model(&models.Organization{}).Where("type = ?", models.OrganizationTypeBureau).Count(&stats.TotalBureaus)

	// Contract statistics
	s.db.Model(&models.Contract{}).Count(&stats.TotalContracts)
	s.db.Model(&models.Contract{}).Where("status = ?", models.ContractStatusActive).Count(&stats.ActiveContracts)
	s.db.Model(&models.Contract{}).Where("created_at >= ?", monthStart).Count(&stats.ContractsThisMonth)
	s.db.Model(&models.Contract{}).
		Where("status IN (?, ?)", models.ContractStatusPendingSignature, models.ContractStatusPartiallySigned).
		Count(&stats.PendingSignatures)

	// MSA and job statistics
	s.db.Model(&models.MSA{}).Where("status = ?", models.MSAStatusActive).Count(&stats.ActiveMSAs)
	s.db.Model(&models.JobPosting{}).Where("status = ?", models.JobStatusOpen).Count(&stats.OpenJobs)
	s.db.Model(&models.ShortlistEntry{}).
		Where("status = ? AND hired_at >= ?", models.ShortlistStatusHired, monthStart).
		Count(&stats.HiresThisMonth)

	// Subscription statistics
	s.db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).Count(&stats.ActiveSubscriptions)
	s.db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusTrialing).Count(&stats.TrialSubscriptions)

	s.db.Model(&models.Subscription{}).
		Joins("JOIN subscription_plans ON subscription_plans.id = subscriptions.plan_id").
		Where("subscriptions.status = ?", models.SubscriptionStatusActive).
		Select("COALESCE(SUM(subscription_plans.price_monthly), 0)").Scan(&stats.MonthlyRevenue)

	// Growth calculations
	var lastMonthContracts int64
	s.db.Model(&models.Contract{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthContracts)
	if lastMonthContracts > 0 {
		stats.ContractGrowth = float64(stats.ContractsThisMonth-lastMonthContracts) / float64(lastMonthContracts) * 100
	}

	var lastMonthHires int64
	s.db.Model(&models.ShortlistEntry{}).
		Where("status = ? AND hired_at >= ? AND hired_at < ?", models.ShortlistStatusHired, lastMonthStart, monthStart).
		Count(&lastMonthHires)
	if lastMonthHires > 0 {
		stats.HireGrowth = float64(stats.HiresThisMonth-lastMonthHires) / float64(lastMonthHires) * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).Preload("Organization")

	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "user_type", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Admin accounts can only be changed by themselves
	if user.UserType == models.UserTypeAdmin && user.ID != adminID {
		return errors.New("cannot modify admin user status")
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	return nil
}

// Settings
func (s *AdminService) GetSettings() (map[string]models.PlatformSetting, error) {
	var settings []models.PlatformSetting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	settingsMap := make(map[string]models.PlatformSetting)
	for _, setting := range settings {
		key := fmt.Sprintf("%s.%s", setting.Category, setting.Key)
		settingsMap[key] = setting
	}

	return settingsMap, nil
}

func (s *AdminService) UpdateSetting(category, key string, value interface{}, dataType string, adminID uuid.UUID) error {
	var setting models.PlatformSetting
	err := s.db.Where("category = ? AND key = ?", category, key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.PlatformSetting{
			Category:  category,
			Key:       key,
			Value:     models.JSONB{"value": value},
			DataType:  dataType,
			UpdatedBy: adminID,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	} else {
		oldValue := setting.Value
		setting.Value = models.JSONB{"value": value}
		setting.DataType = dataType
		setting.UpdatedBy = adminID

		if err := s.db.Save(&setting).Error; err != nil {
			return fmt.Errorf("failed to update setting: %w", err)
		}

		go s.createAuditLog(adminID, "UPDATE_SETTING", "platform_setting", &setting.ID,
			map[string]interface{}{"value": oldValue},
			map[string]interface{}{"value": setting.Value})
	}

	return nil
}

// Analytics and Reporting
func (s *AdminService) GetAnalytics(startDate, endDate time.Time, metrics []string) (map[string]interface{}, error) {
	analytics := make(map[string]interface{})

	for _, metric := range metrics {
		switch metric {
		case "contract_creations":
			var count int64
			s.db.Model(&models.Contract{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["contract_creations"] = count

		case "signatures":
			var count int64
			s.db.Model(&models.ContractSignature{}).
				Where("signed_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["signatures"] = count

		case "distributions":
			var count int64
			s.db.Model(&models.JobDistribution{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["distributions"] = count

		case "hires":
			var count int64
			s.db.Model(&models.ShortlistEntry{}).
				Where("status = ? AND hired_at BETWEEN ? AND ?",
					models.ShortlistStatusHired, startDate, endDate).
				Count(&count)
			analytics["hires"] = count

		case "revenue":
			var revenue float64
			s.db.Model(&models.Subscription{}).
				Joins("JOIN subscription_plans ON subscription_plans.id = subscriptions.plan_id").
				Where("subscriptions.status = ? AND subscriptions.created_at BETWEEN ? AND ?",
					models.SubscriptionStatusActive, startDate, endDate).
				Select("COALESCE(SUM(subscription_plans.price_monthly), 0)").Scan(&revenue)
			analytics["revenue"] = revenue
		}
	}

	return analytics, nil
}

// Audit trail
func (s *AdminService) GetAuditLogs(filter AdminAuditFilter) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "resource_type"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

// SnapshotDailyMetrics writes the day's platform metrics; the server
// entrypoint runs it on a daily ticker.
func (s *AdminService) SnapshotDailyMetrics() error {
	today := time.Now().Truncate(24 * time.Hour)
	dayStart := today
	dayEnd := today.Add(24 * time.Hour)

	metrics, err := s.GetAnalytics(dayStart, dayEnd,
		[]string{"contract_creations", "signatures", "distributions", "hires"})
	if err != nil {
		return err
	}

	for _, row := range dailyAnalyticsRows(metrics, today) {
		if err := s.db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to record metric %s: %w", row.MetricName, err)
		}
	}

	return nil
}

// dailyAnalyticsRows converts a metrics map into daily snapshot rows.
func dailyAnalyticsRows(metrics map[string]interface{}, day time.Time) []models.PlatformAnalytics {
	rows := make([]models.PlatformAnalytics, 0, len(metrics))
	for name, value := range metrics {
		var numeric float64
		switch v := value.(type) {
		case int64:
			numeric = float64(v)
		case float64:
			numeric = v
		}
		rows = append(rows, models.PlatformAnalytics{
			MetricName:   name,
			MetricValue:  numeric,
			MetricDate:   day,
			MetricPeriod: "daily",
		})
	}
	return rows
}

// Helper methods
func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
