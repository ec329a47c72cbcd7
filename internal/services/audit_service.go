package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"financebot/internal/logger"
	"financebot/internal/models"
)

// Audit actions recorded for ledger and planning writes.
const (
	AuditCreateExpense = "CREATE_EXPENSE"
	AuditUpdateExpense = "UPDATE_EXPENSE"
	AuditDeleteExpense = "DELETE_EXPENSE"
	AuditCreateIncome  = "CREATE_INCOME"
	AuditUpdateIncome  = "UPDATE_INCOME"
	AuditDeleteIncome  = "DELETE_INCOME"
	AuditCreateBudget  = "CREATE_BUDGET"
	AuditUpdateBudget  = "UPDATE_BUDGET"
	AuditDeleteBudget  = "DELETE_BUDGET"
	AuditCreateGoal    = "CREATE_GOAL"
	AuditUpdateGoal    = "UPDATE_GOAL"
	AuditDeleteGoal    = "DELETE_GOAL"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate.
func (s *auditService) Log(userID uint, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Named("audit").Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Named("audit").Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
