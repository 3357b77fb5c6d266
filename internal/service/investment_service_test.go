package service

import (
	"context"
	"testing"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestInvestmentService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInvestmentRepository(ctrl)
	svc := NewInvestmentService(repo)
	ctx := context.Background()
	session := ports.Session{AccountID: uuid.New()}

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *domain.Investment) error {
			assert.Equal(t, "NIFTYBEES", inv.Symbol)
			assert.Equal(t, session.AccountID, inv.AccountID)
			inv.ID = 4
			return nil
		})

	inv, err := svc.Add(ctx, session, ports.AddInvestmentRequest{
		Symbol:       " niftybees ",
		Name:         "Nifty 50 ETF",
		Type:         "ETF",
		Quantity:     decimal.NewFromInt(10),
		CurrentPrice: decimal.RequireFromString("245.10"),
		Performance:  decimal.RequireFromString("-1.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), inv.ID)
	assert.Equal(t, "2451.00", inv.MarketValue().StringFixed(2))
}

func TestInvestmentService_AddValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewInvestmentService(mocks.NewMockInvestmentRepository(ctrl))
	session := ports.Session{AccountID: uuid.New()}
	base := ports.AddInvestmentRequest{
		Symbol: "GOLD", Name: "Gold ETF", Type: "ETF",
		Quantity: decimal.NewFromInt(1), CurrentPrice: decimal.NewFromInt(1),
	}

	noSymbol := base
	noSymbol.Symbol = ""
	zeroQty := base
	zeroQty.Quantity = decimal.Zero
	negPrice := base
	negPrice.CurrentPrice = decimal.NewFromInt(-1)

	for _, req := range []ports.AddInvestmentRequest{noSymbol, zeroQty, negPrice} {
		_, err := svc.Add(context.Background(), session, req)
		requireAppError(t, err, "VAL_001")
	}
}

func TestInvestmentService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInvestmentRepository(ctrl)
	svc := NewInvestmentService(repo)
	ctx := context.Background()
	session := ports.Session{AccountID: uuid.New()}

	repo.EXPECT().ListByAccount(ctx, session.AccountID).Return(nil, nil)
	list, err := svc.List(ctx, session)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
