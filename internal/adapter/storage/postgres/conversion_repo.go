package postgres

import (
	"context"
	"fmt"

	"globalupi/internal/core/domain"
)

// ConversionRepo implements ports.ConversionRepository.
type ConversionRepo struct {
	pool Pool
}

// NewConversionRepo creates a new ConversionRepo.
func NewConversionRepo(pool Pool) *ConversionRepo {
	return &ConversionRepo{pool: pool}
}

// Create appends a conversion record and fills ID and CreatedAt.
func (r *ConversionRepo) Create(ctx context.Context, c *domain.ConversionRecord) error {
	query := `INSERT INTO conversions (account_id, from_currency, to_currency, from_amount, to_amount, rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		c.AccountID, c.FromCurrency, c.ToCurrency, c.FromAmount, c.ToAmount, c.Rate,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}
