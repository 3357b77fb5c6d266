package postgres

import (
	"context"
	"fmt"

	"globalupi/internal/core/domain"

	"github.com/google/uuid"
)

// InvestmentRepo implements ports.InvestmentRepository.
type InvestmentRepo struct {
	pool Pool
}

// NewInvestmentRepo creates a new InvestmentRepo.
func NewInvestmentRepo(pool Pool) *InvestmentRepo {
	return &InvestmentRepo{pool: pool}
}

// Create inserts a holding and fills ID and CreatedAt.
func (r *InvestmentRepo) Create(ctx context.Context, inv *domain.Investment) error {
	query := `INSERT INTO investments (account_id, symbol, name, type, quantity, current_price, performance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		inv.AccountID, inv.Symbol, inv.Name, inv.Type,
		inv.Quantity, inv.CurrentPrice, inv.Performance,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

// ListByAccount returns the holdings of one account in insertion order.
func (r *InvestmentRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error) {
	query := `SELECT id, account_id, symbol, name, type, quantity, current_price, performance, created_at
		FROM investments WHERE account_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Investment, 0)
	for rows.Next() {
		var inv domain.Investment
		if err := rows.Scan(
			&inv.ID, &inv.AccountID, &inv.Symbol, &inv.Name, &inv.Type,
			&inv.Quantity, &inv.CurrentPrice, &inv.Performance, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan investment row: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investment rows: %w", err)
	}
	return out, nil
}
