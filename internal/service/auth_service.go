package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Password length bounds, counted in characters.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	accountRepo ports.AccountRepository
	hashSvc     ports.HashService
	tokenSvc    ports.TokenService
	log         zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	accountRepo ports.AccountRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		hashSvc:     hashSvc,
		tokenSvc:    tokenSvc,
		log:         log,
	}
}

// Signup creates an account with the default balances and signs a token for it.
func (s *AuthServiceImpl) Signup(ctx context.Context, req ports.SignupRequest) (*ports.AuthResult, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	account := &domain.Account{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Phone:         strings.TrimSpace(req.Phone),
		BankName:      strings.TrimSpace(req.BankName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		PasswordHash:  passwordHash,
		Balances:      domain.DefaultBalances(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.ErrEmailExists()
		}
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create account: %w", err))
	}

	token, expiresAt, err := s.tokenSvc.Generate(account.ID, account.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info().Str("account_id", account.ID.String()).Msg("account created")

	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Login validates credentials and returns a JWT token. Unknown email and
// wrong password produce the same error.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.Validation("Email and password are required")
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, account.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID.String()).Msg("stored credential could not be verified")
		return nil, apperror.ErrInvalidCredentials()
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(account.ID, account.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func validateSignup(req ports.SignupRequest) error {
	fields := []string{req.Name, req.Email, req.Phone, req.BankName, req.AccountNumber, req.Password}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return apperror.Validation("All fields are required")
		}
	}
	if !strings.Contains(req.Email, "@") {
		return apperror.Validation("Invalid email address")
	}
	n := utf8.RuneCountInString(req.Password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return apperror.Validation(fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}
	return nil
}
