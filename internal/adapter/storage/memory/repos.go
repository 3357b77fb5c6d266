package memory

import (
	"context"
	"sort"
	"time"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type accountRow struct {
	account  domain.Account // balances live in the field below
	balances domain.Balances
}

func (r *accountRow) snapshot() *domain.Account {
	a := r.account
	a.Balances = r.balances
	return &a
}

type txnRow struct {
	rec domain.TransactionRecord
}

type convRow struct {
	rec domain.ConversionRecord
}

type invRow struct {
	inv domain.Investment
}

// --- Accounts ---

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	store *Store
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(store *Store) *AccountRepo {
	return &AccountRepo{store: store}
}

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[a.Email]; taken {
		return domain.ErrDuplicateEmail
	}
	a.CreatedAt = s.now()
	row := &accountRow{account: *a, balances: a.Balances}
	row.account.Balances = domain.Balances{}
	s.accounts[a.ID] = row
	s.byEmail[a.Email] = a.ID
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return row.snapshot(), nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	return s.accounts[id].snapshot(), nil
}

func (r *AccountRepo) GetBalances(ctx context.Context, id uuid.UUID) (*domain.Balances, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	b := row.balances
	return &b, nil
}

// GetBalancesForUpdate takes the account row lock for the life of tx.
func (r *AccountRepo) GetBalancesForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Balances, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, id); err != nil {
		return nil, err
	}
	b, ok := mt.balancesOf(id)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// Debit stages a conditional debit inside tx.
func (r *AccountRepo) Debit(ctx context.Context, tx pgx.Tx, id uuid.UUID, currency domain.Currency, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if !currency.Valid() {
		return decimal.Zero, domain.ErrUnsupportedCurrency
	}
	mt, err := asTx(tx)
	if err != nil {
		return decimal.Zero, err
	}
	if err := mt.lock(ctx, id); err != nil {
		return decimal.Zero, err
	}

	b, ok := mt.balancesOf(id)
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	current := b.Of(currency)
	if current.LessThan(amount) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	next := current.Sub(amount)
	mt.stageBalances(id, b.With(currency, next))
	return next, nil
}

// --- Transactions ---

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Create stages the record in tx. The id is assigned immediately.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.TransactionRecord) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	t.ID = s.nextID()
	t.CreatedAt = s.now()
	s.mu.Unlock()

	rec := *t
	if t.Recipient != nil {
		rcp := *t.Recipient
		rec.Recipient = &rcp
	}
	mt.stageTxn(txnRow{rec: rec})
	return nil
}

// List returns committed records newest first.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.TransactionRecord, error) {
	s := r.store
	s.mu.RLock()
	out := make([]domain.TransactionRecord, 0)
	for _, row := range s.txns {
		if row.rec.AccountID != params.AccountID {
			continue
		}
		if params.Kind != nil && row.rec.Kind != *params.Kind {
			continue
		}
		out = append(out, row.rec)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return out[:0], nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

// --- Conversions ---

// ConversionRepo implements ports.ConversionRepository.
type ConversionRepo struct {
	store *Store
}

// NewConversionRepo creates a new ConversionRepo.
func NewConversionRepo(store *Store) *ConversionRepo {
	return &ConversionRepo{store: store}
}

func (r *ConversionRepo) Create(ctx context.Context, c *domain.ConversionRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	c.CreatedAt = s.now()
	s.conversions = append(s.conversions, convRow{rec: *c})
	return nil
}

// Conversions returns every stored conversion for an account.
func (r *ConversionRepo) Conversions(accountID uuid.UUID) []domain.ConversionRecord {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ConversionRecord
	for _, row := range s.conversions {
		if row.rec.AccountID == accountID {
			out = append(out, row.rec)
		}
	}
	return out
}

// --- Investments ---

// InvestmentRepo implements ports.InvestmentRepository.
type InvestmentRepo struct {
	store *Store
}

// NewInvestmentRepo creates a new InvestmentRepo.
func NewInvestmentRepo(store *Store) *InvestmentRepo {
	return &InvestmentRepo{store: store}
}

func (r *InvestmentRepo) Create(ctx context.Context, inv *domain.Investment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.nextID()
	inv.CreatedAt = s.now()
	s.investments = append(s.investments, invRow{inv: *inv})
	return nil
}

func (r *InvestmentRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Investment, 0)
	for _, row := range s.investments {
		if row.inv.AccountID == accountID {
			out = append(out, row.inv)
		}
	}
	return out, nil
}

// SetClock replaces the store's time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
