package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/jotaveeo/nocontrole-back/internal/logger"
	"github.com/jotaveeo/nocontrole-back/internal/models"
)

// auditService records mutating actions. Logging is best-effort and never
// fails the request that triggered it.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log persists an audit entry. Failures are logged and swallowed.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}

	if len(changes) > 0 {
		if payload, err := json.Marshal(changes); err == nil {
			entry.Changes = string(payload)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Warnw("failed to write audit log",
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"error", err,
		)
	}
}
