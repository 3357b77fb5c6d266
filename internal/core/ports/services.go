package ports

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

import (
	"context"
	"time"

	"globalupi/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*Session, error)
}

// Session is the authenticated caller resolved from a bearer token.
// It is passed explicitly to every service call.
type Session struct {
	AccountID uuid.UUID
	Email     string
}

// IdempotencyCache is the Redis-backed replay guard for send-money.
type IdempotencyCache interface {
	// Get returns the stored result or nil when absent or still in flight.
	Get(ctx context.Context, key string) ([]byte, error)
	// Claim marks key as in flight. False means someone holds it.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// RateLimitStore counts requests in a fixed window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// AuditService records security and money-movement events.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// AuthService defines signup and login.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// SignupRequest holds validated input for account creation.
type SignupRequest struct {
	Name          string
	Email         string
	Phone         string
	BankName      string
	AccountNumber string
	Password      string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// TransferService executes outgoing transfers.
type TransferService interface {
	SendMoney(ctx context.Context, session Session, req SendMoneyRequest) (*domain.TransferResult, error)
}

// SendMoneyRequest holds validated input for a transfer.
type SendMoneyRequest struct {
	Recipient      domain.Recipient
	Amount         decimal.Decimal
	Currency       domain.Currency
	Message        string
	IdempotencyKey string // optional
}

// ConversionService quotes conversions between currencies.
type ConversionService interface {
	Convert(ctx context.Context, session Session, req ConvertRequest) (*domain.ConversionRecord, error)
}

// ConvertRequest holds validated input for a conversion.
type ConvertRequest struct {
	FromAmount   decimal.Decimal
	FromCurrency domain.Currency
	ToCurrency   domain.Currency
}

// DashboardService defines the read side.
type DashboardService interface {
	GetBalances(ctx context.Context, session Session) (*domain.Balances, error)
	GetProfile(ctx context.Context, session Session) (*domain.Account, error)
	ListTransactions(ctx context.Context, session Session, filter HistoryFilter) ([]domain.TransactionRecord, error)
}

// HistoryFilter is the caller-facing history query.
type HistoryFilter struct {
	Type   string // kind, "all" or empty
	Limit  int
	Offset int
}

// InvestmentService manages display-only holdings.
type InvestmentService interface {
	List(ctx context.Context, session Session) ([]domain.Investment, error)
	Add(ctx context.Context, session Session, req AddInvestmentRequest) (*domain.Investment, error)
}

// AddInvestmentRequest holds validated input for a new holding.
type AddInvestmentRequest struct {
	Symbol       string
	Name         string
	Type         string
	Quantity     decimal.Decimal
	CurrentPrice decimal.Decimal
	Performance  decimal.Decimal
}
