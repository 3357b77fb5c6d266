package postgres

import (
	"context"
	"fmt"
	"strings"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, account_id, type, recipient_name, recipient_email, recipient_bank_name,
		recipient_account_number, amount, currency, description, status, created_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction and
// fills the ledger-assigned ID and CreatedAt.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.TransactionRecord) error {
	query := `INSERT INTO transactions (account_id, type, recipient_name, recipient_email, recipient_bank_name,
		recipient_account_number, amount, currency, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	name, email, bank, number := recipientArgs(t.Recipient)
	err := tx.QueryRow(ctx, query,
		t.AccountID, t.Kind, name, email, bank, number,
		t.Amount, t.Currency, t.Description, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List fetches the history of one account, newest first.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.TransactionRecord, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("account_id = $%d", argIdx))
	args = append(args, params.AccountID)
	argIdx++

	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY created_at DESC, id DESC`,
		transactionColumns, strings.Join(conditions, " AND "))

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		var (
			t                         domain.TransactionRecord
			name, email, bank, number *string
		)
		err := rows.Scan(
			&t.ID, &t.AccountID, &t.Kind, &name, &email, &bank, &number,
			&t.Amount, &t.Currency, &t.Description, &t.Status, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t.Recipient = recipientFrom(name, email, bank, number)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

func recipientArgs(r *domain.Recipient) (name, email, bank, number *string) {
	if r == nil {
		return nil, nil, nil, nil
	}
	return &r.Name, &r.Email, &r.BankName, &r.AccountNumber
}

func recipientFrom(name, email, bank, number *string) *domain.Recipient {
	if name == nil && email == nil && bank == nil && number == nil {
		return nil
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return &domain.Recipient{
		Name:          deref(name),
		Email:         deref(email),
		BankName:      deref(bank),
		AccountNumber: deref(number),
	}
}
