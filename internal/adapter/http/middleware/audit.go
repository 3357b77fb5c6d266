package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxAuditResourceID lets a handler attach the id of the record it created.
const CtxAuditResourceID = "audit_resource_id"

// CtxAuditAccountID lets public handlers name the account they acted on.
const CtxAuditAccountID = "audit_account_id"

// AuditLog creates an audit middleware that logs successful write operations.
// It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapPathToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var accountID *uuid.UUID
		if s, ok := SessionFrom(c); ok {
			accountID = &s.AccountID
		} else if v, exists := c.Get(CtxAuditAccountID); exists {
			if id, ok := v.(uuid.UUID); ok {
				accountID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			AccountID:    accountID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxAuditResourceID),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch path {
	case "/api/auth/signup":
		return domain.AuditActionSignup, "account"
	case "/api/auth/login":
		return domain.AuditActionLogin, "session"
	case "/api/send-money":
		return domain.AuditActionSendMoney, "transaction"
	case "/api/converter":
		return domain.AuditActionConvert, "conversion"
	case "/api/investments":
		return domain.AuditActionAddInvestment, "investment"
	}
	return "", ""
}
