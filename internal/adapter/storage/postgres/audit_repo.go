package postgres

import (
	"context"
	"fmt"

	"globalupi/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends an audit entry. Empty details are stored as NULL.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditLog) error {
	var details *string
	if e.Details != "" {
		details = &e.Details
	}
	var resourceID *string
	if e.ResourceID != "" {
		resourceID = &e.ResourceID
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (account_id, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.AccountID, string(e.Action), e.ResourceType, resourceID, details, e.IPAddress, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
