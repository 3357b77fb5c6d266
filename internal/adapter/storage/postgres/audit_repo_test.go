package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"globalupi/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	accountID := uuid.New()
	entry := &domain.AuditLog{
		AccountID:    &accountID,
		Action:       domain.AuditActionSendMoney,
		ResourceType: "transaction",
		ResourceID:   "TXN42",
		Details:      `{"status":200}`,
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(&accountID, "SEND_MONEY", "transaction", &entry.ResourceID, &entry.Details, "127.0.0.1", entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_CreateAnonymous(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := &domain.AuditLog{
		Action:       domain.AuditActionLogin,
		ResourceType: "session",
		IPAddress:    "10.0.0.1",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs((*uuid.UUID)(nil), "LOGIN", "session", (*string)(nil), (*string)(nil), "10.0.0.1", entry.CreatedAt).
		WillReturnError(errors.New("connection reset"))

	err = repo.Create(context.Background(), entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert audit log")
	assert.NoError(t, mock.ExpectationsWereMet())
}
