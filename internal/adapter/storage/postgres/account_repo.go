package postgres

import (
	"context"
	"errors"
	"fmt"

	"globalupi/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, email, phone, bank_name, account_number, password_hash,
		balance_inr, balance_usd, balance_eur, created_at`

// balanceColumns is the only way a currency reaches SQL text.
var balanceColumns = map[domain.Currency]string{
	domain.CurrencyINR: "balance_inr",
	domain.CurrencyUSD: "balance_usd",
	domain.CurrencyEUR: "balance_eur",
}

// debitQueries holds one prebuilt conditional debit per currency.
var debitQueries = func() map[domain.Currency]string {
	m := make(map[domain.Currency]string, len(balanceColumns))
	for cur, col := range balanceColumns {
		m[cur] = fmt.Sprintf(
			`UPDATE accounts SET %[1]s = %[1]s - $1 WHERE id = $2 AND %[1]s >= $1 RETURNING %[1]s`, col)
	}
	return m
}()

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account and fills CreatedAt.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, name, email, phone, bank_name, account_number, password_hash,
		balance_inr, balance_usd, balance_eur)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Email, a.Phone, a.BankName, a.AccountNumber, a.PasswordHash,
		a.Balances.INR, a.Balances.USD, a.Balances.EUR,
	).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by its UUID. Returns nil, nil when absent.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByEmail fetches an account by its (normalized) email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// GetBalances reads the three balances without locking.
func (r *AccountRepo) GetBalances(ctx context.Context, id uuid.UUID) (*domain.Balances, error) {
	query := `SELECT balance_inr, balance_usd, balance_eur FROM accounts WHERE id = $1`

	b, err := scanBalances(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	return b, nil
}

// GetBalancesForUpdate reads the balances with a row lock.
// This MUST be called within a transaction.
func (r *AccountRepo) GetBalancesForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Balances, error) {
	query := `SELECT balance_inr, balance_usd, balance_eur FROM accounts WHERE id = $1 FOR UPDATE`

	b, err := scanBalances(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get balances for update: %w", err)
	}
	return b, nil
}

// Debit subtracts amount from one balance only if the result stays
// non-negative. Zero affected rows are resolved to not-found or
// insufficient funds.
func (r *AccountRepo) Debit(ctx context.Context, tx pgx.Tx, id uuid.UUID, currency domain.Currency, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	query, ok := debitQueries[currency]
	if !ok {
		return decimal.Zero, domain.ErrUnsupportedCurrency
	}

	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, query, amount, id).Scan(&newBalance)
	if err == nil {
		return newBalance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("debit account: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return decimal.Zero, fmt.Errorf("check account exists: %w", err)
	}
	if !exists {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return decimal.Zero, domain.ErrInsufficientFunds
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.BankName, &a.AccountNumber, &a.PasswordHash,
		&a.Balances.INR, &a.Balances.USD, &a.Balances.EUR, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func scanBalances(row pgx.Row) (*domain.Balances, error) {
	b := &domain.Balances{}
	if err := row.Scan(&b.INR, &b.USD, &b.EUR); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}
