package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionSignup        AuditAction = "SIGNUP"
	AuditActionLogin         AuditAction = "LOGIN"
	AuditActionSendMoney     AuditAction = "SEND_MONEY"
	AuditActionConvert       AuditAction = "CONVERT"
	AuditActionAddInvestment AuditAction = "ADD_INVESTMENT"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	AccountID    *uuid.UUID  `json:"account_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
