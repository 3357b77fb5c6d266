package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

import (
	"context"

	"globalupi/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside a transaction and hold the
// account row lock until it ends.
type AccountRepository interface {
	// Create stores a new account and fills CreatedAt.
	// Returns domain.ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetBalances returns nil, nil when the account does not exist.
	GetBalances(ctx context.Context, id uuid.UUID) (*domain.Balances, error)
	GetBalancesForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Balances, error)
	// Debit subtracts amount from one balance if it stays >= 0 and
	// returns the new balance.
	Debit(ctx context.Context, tx pgx.Tx, id uuid.UUID, currency domain.Currency, amount decimal.Decimal) (decimal.Decimal, error)
}

// TransactionRepository is the append-only transaction ledger.
type TransactionRepository interface {
	// Create appends the record and fills ID and CreatedAt.
	Create(ctx context.Context, tx pgx.Tx, record *domain.TransactionRecord) error
	List(ctx context.Context, params TransactionListParams) ([]domain.TransactionRecord, error)
}

// TransactionListParams holds filter + pagination for listing history.
type TransactionListParams struct {
	AccountID uuid.UUID
	Kind      *domain.TransactionKind // nil = every kind
	Limit     int                     // 0 = full history
	Offset    int
}

// ConversionRepository is the append-only conversion log.
type ConversionRepository interface {
	// Create appends the record and fills ID and CreatedAt.
	Create(ctx context.Context, record *domain.ConversionRecord) error
}

// InvestmentRepository stores display-only holdings.
type InvestmentRepository interface {
	Create(ctx context.Context, investment *domain.Investment) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
