// internal/services/workflow_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

// WorkflowService manages VMS automation rules and fires them against
// lifecycle events.
type WorkflowService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateWorkflowRequest struct {
	Name         string                 `json:"name" validate:"required,max=255"`
	Description  string                 `json:"description,omitempty"`
	TriggerEvent string                 `json:"trigger_event" validate:"required"`
	Conditions   map[string]interface{} `json:"conditions,omitempty"`
	Actions      map[string]interface{} `json:"actions,omitempty"`
	Enabled      *bool                  `json:"enabled,omitempty"`
}

type WorkflowSearchParams struct {
	utils.PaginationParams
	TriggerEvent string `json:"trigger_event,omitempty"`
	Enabled      *bool  `json:"enabled,omitempty"`
}

func NewWorkflowService(db *gorm.DB, notificationService *NotificationService) *WorkflowService {
	return &WorkflowService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *WorkflowService) CreateRule(creatorID uuid.UUID, req *CreateWorkflowRequest) (*models.WorkflowRule, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := &models.WorkflowRule{
		Name:         req.Name,
		Description:  req.Description,
		TriggerEvent: req.TriggerEvent,
		Conditions:   models.JSONB(req.Conditions),
		Actions:      models.JSONB(req.Actions),
		Enabled:      enabled,
		CreatedBy:    creatorID,
	}

	if err := s.db.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create workflow rule: %w", err)
	}

	return rule, nil
}

func (s *WorkflowService) GetRule(id uuid.UUID) (*models.WorkflowRule, error) {
	var rule models.WorkflowRule
	if err := s.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("workflow rule not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &rule, nil
}

func (s *WorkflowService) SearchRules(params WorkflowSearchParams) ([]models.WorkflowRule, int64, error) {
	query := s.db.Model(&models.WorkflowRule{})

	if params.TriggerEvent != "" {
		query = query.Where("trigger_event = ?", params.TriggerEvent)
	}
	if params.Enabled != nil {
		query = query.Where("enabled = ?", *params.Enabled)
	}
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count workflow rules: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "trigger_event", "run_count"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var rules []models.WorkflowRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch workflow rules: %w", err)
	}

	return rules, total, nil
}

func (s *WorkflowService) SetEnabled(id uuid.UUID, enabled bool) (*models.WorkflowRule, error) {
	rule, err := s.GetRule(id)
	if err != nil {
		return nil, err
	}

	rule.Enabled = enabled
	if err := s.db.Save(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to update workflow rule: %w", err)
	}

	return rule, nil
}

func (s *WorkflowService) DeleteRule(id uuid.UUID) error {
	result := s.db.Delete(&models.WorkflowRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete workflow rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("workflow rule not found")
	}
	return nil
}

// FireEvent evaluates every enabled rule whose trigger matches the event.
// Conditions are equality checks against the payload; the supported action is
// notifying an organization named in the action config or the payload.
func (s *WorkflowService) FireEvent(event string, payload map[string]interface{}) {
	var rules []models.WorkflowRule
	if err := s.db.Where("trigger_event = ? AND enabled = ?", event, true).Find(&rules).Error; err != nil {
		logrus.WithError(err).WithField("event", event).Error("Failed to load workflow rules")
		return
	}

	for i := range rules {
		rule := &rules[i]
		if !conditionsMatch(rule.Conditions, payload) {
			continue
		}

		s.runActions(rule, event, payload)

		if err := s.db.Model(rule).UpdateColumn("run_count", gorm.Expr("run_count + 1")).Error; err != nil {
			logrus.WithError(err).WithField("rule_id", rule.ID).Error("Failed to bump workflow run count")
		}
	}
}

func conditionsMatch(conditions models.JSONB, payload map[string]interface{}) bool {
	for key, expected := range conditions {
		actual, ok := payload[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected) {
			return false
		}
	}
	return true
}

func (s *WorkflowService) runActions(rule *models.WorkflowRule, event string, payload map[string]interface{}) {
	if s.notificationService == nil {
		return
	}

	notify, ok := rule.Actions["notify_org"]
	if !ok {
		return
	}

	orgID, err := uuid.Parse(fmt.Sprintf("%v", notify))
	if err != nil {
		// "$event_org" resolves the org from the payload
		raw, exists := payload["org_id"]
		if !exists {
			return
		}
		orgID, err = uuid.Parse(fmt.Sprintf("%v", raw))
		if err != nil {
			return
		}
	}

	title := rule.Name
	if t, ok := rule.Actions["title"].(string); ok && t != "" {
		title = t
	}
	message := fmt.Sprintf("Automation rule '%s' fired on event %s", rule.Name, event)
	if m, ok := rule.Actions["message"].(string); ok && m != "" {
		message = m
	}

	s.notificationService.NotifyOrg(orgID, "workflow", title, message, "medium", "workflow_rule", &rule.ID)
}
