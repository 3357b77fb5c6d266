package service

import (
	"context"
	"fmt"
	"strings"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"
)

// InvestmentServiceImpl implements ports.InvestmentService.
type InvestmentServiceImpl struct {
	repo ports.InvestmentRepository
}

// NewInvestmentService creates a new InvestmentServiceImpl.
func NewInvestmentService(repo ports.InvestmentRepository) *InvestmentServiceImpl {
	return &InvestmentServiceImpl{repo: repo}
}

// List returns the caller's holdings.
func (s *InvestmentServiceImpl) List(ctx context.Context, session ports.Session) ([]domain.Investment, error) {
	list, err := s.repo.ListByAccount(ctx, session.AccountID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list investments: %w", err))
	}
	if list == nil {
		list = []domain.Investment{}
	}
	return list, nil
}

// Add records a new holding. Holdings are display only and never touch balances.
func (s *InvestmentServiceImpl) Add(ctx context.Context, session ports.Session, req ports.AddInvestmentRequest) (*domain.Investment, error) {
	inv := &domain.Investment{
		AccountID:    session.AccountID,
		Symbol:       strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Name:         strings.TrimSpace(req.Name),
		Type:         strings.TrimSpace(req.Type),
		Quantity:     req.Quantity,
		CurrentPrice: req.CurrentPrice,
		Performance:  req.Performance,
	}
	if inv.Symbol == "" || inv.Name == "" || inv.Type == "" {
		return nil, apperror.Validation("symbol, name and type are required")
	}
	if !inv.Quantity.IsPositive() {
		return nil, apperror.Validation("quantity must be positive")
	}
	if inv.CurrentPrice.IsNegative() {
		return nil, apperror.Validation("current price must not be negative")
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create investment: %w", err))
	}
	return inv, nil
}
