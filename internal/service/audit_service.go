package service

import (
	"context"
	"time"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"

	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates an audit service that writes one structured
// "audit" line per entry and, when repo is non-nil, persists it.
func NewAuditService(log zerolog.Logger, repo ports.AuditRepository) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Log records an audit entry. Persistence failures are logged and never
// surface to the caller.
func (s *auditService) Log(ctx context.Context, entry *domain.AuditLog) {
	if entry == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	ev := s.log.Info().
		Str("action", string(entry.Action)).
		Str("resource_type", entry.ResourceType).
		Str("ip", entry.IPAddress).
		Time("at", entry.CreatedAt)
	if entry.AccountID != nil {
		ev = ev.Str("account_id", entry.AccountID.String())
	}
	if entry.ResourceID != "" {
		ev = ev.Str("resource_id", entry.ResourceID)
	}
	if entry.Details != "" {
		ev = ev.RawJSON("details", []byte(entry.Details))
	}
	ev.Msg("audit")

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("audit persist failed")
	}
}
