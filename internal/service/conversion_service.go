package service

import (
	"context"
	"fmt"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"

	"github.com/rs/zerolog"
)

// ConversionServiceImpl implements ports.ConversionService.
type ConversionServiceImpl struct {
	convRepo ports.ConversionRepository
	log      zerolog.Logger
}

// NewConversionService creates a new ConversionServiceImpl.
func NewConversionService(convRepo ports.ConversionRepository, log zerolog.Logger) *ConversionServiceImpl {
	return &ConversionServiceImpl{convRepo: convRepo, log: log}
}

// Convert quotes amount at the fixed rate for (from, to) and records the
// quote. Balances are not read or written. The source amount may carry
// any precision; only the result is rounded.
func (s *ConversionServiceImpl) Convert(ctx context.Context, session ports.Session, req ports.ConvertRequest) (*domain.ConversionRecord, error) {
	if !req.FromAmount.IsPositive() {
		return nil, apperror.ErrInvalidQuoteAmount()
	}
	if !req.FromCurrency.Valid() || !req.ToCurrency.Valid() {
		return nil, apperror.ErrUnknownPair()
	}

	converted, rate, err := domain.ConvertAmount(req.FromAmount, req.FromCurrency, req.ToCurrency)
	if err != nil {
		return nil, mapStoreError(err, "convert")
	}

	rec := &domain.ConversionRecord{
		AccountID:    session.AccountID,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		FromAmount:   req.FromAmount,
		ToAmount:     converted,
		Rate:         rate,
	}
	if err := s.convRepo.Create(ctx, rec); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("record conversion: %w", err))
	}

	s.log.Debug().
		Str("account_id", session.AccountID.String()).
		Str("from", formatMoney(req.FromAmount)+" "+req.FromCurrency.String()).
		Str("to", formatMoney(converted)+" "+req.ToCurrency.String()).
		Msg("conversion quoted")

	return rec, nil
}
