package service

import (
	"context"
	"fmt"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"
)

// MaxHistoryLimit caps a single history page.
const MaxHistoryLimit = 500

// DashboardServiceImpl implements ports.DashboardService.
type DashboardServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
}

// NewDashboardService creates a new DashboardServiceImpl.
func NewDashboardService(accountRepo ports.AccountRepository, txRepo ports.TransactionRepository) *DashboardServiceImpl {
	return &DashboardServiceImpl{accountRepo: accountRepo, txRepo: txRepo}
}

// GetBalances returns the caller's three balances.
func (s *DashboardServiceImpl) GetBalances(ctx context.Context, session ports.Session) (*domain.Balances, error) {
	b, err := s.accountRepo.GetBalances(ctx, session.AccountID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get balances: %w", err))
	}
	if b == nil {
		return nil, apperror.ErrNotFound("Account")
	}
	return b, nil
}

// GetProfile returns the caller's account.
func (s *DashboardServiceImpl) GetProfile(ctx context.Context, session ports.Session) (*domain.Account, error) {
	a, err := s.accountRepo.GetByID(ctx, session.AccountID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get account: %w", err))
	}
	if a == nil {
		return nil, apperror.ErrNotFound("User")
	}
	return a, nil
}

// ListTransactions returns the caller's history, newest first.
func (s *DashboardServiceImpl) ListTransactions(ctx context.Context, session ports.Session, filter ports.HistoryFilter) ([]domain.TransactionRecord, error) {
	kind, err := domain.ParseKindFilter(filter.Type)
	if err != nil {
		return nil, apperror.Validation("type must be one of all, sent, received, conversion")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperror.Validation("limit and offset must not be negative")
	}
	limit := filter.Limit
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	txns, err := s.txRepo.List(ctx, ports.TransactionListParams{
		AccountID: session.AccountID,
		Kind:      kind,
		Limit:     limit,
		Offset:    filter.Offset,
	})
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list transactions: %w", err))
	}
	if txns == nil {
		txns = []domain.TransactionRecord{}
	}
	return txns, nil
}
