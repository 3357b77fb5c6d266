package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	idempotencyTTL      = 24 * time.Hour
	idempotencyClaimTTL = 30 * time.Second
)

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	idempCache  ports.IdempotencyCache // optional
	log         zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl. idempCache may be nil,
// in which case Idempotency-Key is ignored.
func NewTransferService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	idempCache ports.IdempotencyCache,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		idempCache:  idempCache,
		log:         log,
	}
}

// SendMoney debits the caller and appends a "sent" record in one database
// transaction. Either both land or neither does.
func (s *TransferServiceImpl) SendMoney(ctx context.Context, session ports.Session, req ports.SendMoneyRequest) (*domain.TransferResult, error) {
	if err := validateSend(&req); err != nil {
		return nil, err
	}

	if req.IdempotencyKey == "" || s.idempCache == nil {
		return s.transfer(ctx, session, req)
	}

	key := domain.TransferIdempotencyKey(session.AccountID, req.IdempotencyKey)

	if res, ok := s.replay(ctx, key); ok {
		return res, nil
	}

	claimed, err := s.idempCache.Claim(ctx, key, idempotencyClaimTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency claim failed, continuing without it")
		return s.transfer(ctx, session, req)
	}
	if !claimed {
		// Completed between Get and Claim, or still running elsewhere.
		if res, ok := s.replay(ctx, key); ok {
			return res, nil
		}
		return nil, apperror.ErrDuplicateTransaction()
	}

	result, err := s.transfer(ctx, session, req)
	if err != nil {
		if relErr := s.idempCache.Release(ctx, key); relErr != nil {
			s.log.Warn().Err(relErr).Str("key", key).Msg("failed to release idempotency claim")
		}
		return nil, err
	}

	if body, mErr := json.Marshal(result); mErr != nil {
		s.log.Warn().Err(mErr).Str("key", key).Msg("failed to marshal transfer result")
	} else if sErr := s.idempCache.Set(ctx, key, body, idempotencyTTL); sErr != nil {
		s.log.Warn().Err(sErr).Str("key", key).Msg("failed to store idempotency result")
	}

	return result, nil
}

func (s *TransferServiceImpl) transfer(ctx context.Context, session ports.Session, req ports.SendMoneyRequest) (*domain.TransferResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	balances, err := s.accountRepo.GetBalancesForUpdate(ctx, dbTx, session.AccountID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("lock account: %w", err))
	}
	if balances == nil {
		return nil, apperror.ErrNotFound("Account")
	}
	if balances.Of(req.Currency).LessThan(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	newBalance, err := s.accountRepo.Debit(ctx, dbTx, session.AccountID, req.Currency, req.Amount)
	if err != nil {
		return nil, mapStoreError(err, "debit account")
	}

	description := strings.TrimSpace(req.Message)
	if description == "" {
		description = domain.DefaultSendDescription
	}
	recipient := req.Recipient
	rec := &domain.TransactionRecord{
		AccountID:   session.AccountID,
		Kind:        domain.TransactionKindSent,
		Recipient:   &recipient,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: description,
		Status:      domain.TransactionStatusCompleted,
	}
	if err := s.txRepo.Create(ctx, dbTx, rec); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("record transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account_id", session.AccountID.String()).
		Str("reference", rec.Reference()).
		Str("amount", formatMoney(req.Amount)).
		Str("currency", req.Currency.String()).
		Msg("money sent")

	return &domain.TransferResult{
		TransactionID: rec.ID,
		Reference:     rec.Reference(),
		Currency:      req.Currency,
		NewBalance:    newBalance,
	}, nil
}

// replay returns a stored result for key. Cache failures count as a miss.
func (s *TransferServiceImpl) replay(ctx context.Context, key string) (*domain.TransferResult, bool) {
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency lookup failed")
		return nil, false
	}
	if cached == nil {
		return nil, false
	}
	res := &domain.TransferResult{}
	if err := json.Unmarshal(cached, res); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable idempotency result")
		return nil, false
	}
	return res, true
}

func validateSend(req *ports.SendMoneyRequest) error {
	r := &req.Recipient
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.BankName = strings.TrimSpace(r.BankName)
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	if r.Name == "" || r.Email == "" || r.BankName == "" || r.AccountNumber == "" {
		return apperror.Validation("Recipient name, email, bank name and account number are required")
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return apperror.ErrInvalidAmount()
	}
	if !req.Currency.Valid() {
		return apperror.ErrUnsupportedCurrency()
	}
	return nil
}

// mapStoreError translates repository sentinels into API errors.
func mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return apperror.ErrInsufficientFunds()
	case errors.Is(err, domain.ErrAccountNotFound):
		return apperror.ErrNotFound("Account")
	case errors.Is(err, domain.ErrInvalidAmount):
		return apperror.ErrInvalidAmount()
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return apperror.ErrUnsupportedCurrency()
	case errors.Is(err, domain.ErrUnknownPair):
		return apperror.ErrUnknownPair()
	default:
		return apperror.ErrStorageFailure(fmt.Errorf("%s: %w", op, err))
	}
}

// formatMoney renders an amount at two decimal places.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(domain.AmountScale)
}
