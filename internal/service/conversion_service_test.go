package service

import (
	"context"
	"errors"
	"testing"

	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupConversionService(t *testing.T) (*ConversionServiceImpl, *mocks.MockConversionRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockConversionRepository(ctrl)
	return NewConversionService(repo, zerolog.Nop()), repo
}

func convertReq(amount string, from, to domain.Currency) ports.ConvertRequest {
	return ports.ConvertRequest{
		FromAmount:   decimal.RequireFromString(amount),
		FromCurrency: from,
		ToCurrency:   to,
	}
}

func TestConversionService_Convert(t *testing.T) {
	svc, repo := setupConversionService(t)
	ctx := context.Background()
	session := ports.Session{AccountID: uuid.New()}

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.ConversionRecord) error {
			assert.Equal(t, session.AccountID, rec.AccountID)
			rec.ID = 11
			return nil
		})

	rec, err := svc.Convert(ctx, session, convertReq("100", domain.CurrencyINR, domain.CurrencyUSD))
	require.NoError(t, err)
	assert.Equal(t, int64(11), rec.ID)
	assert.Equal(t, "1.20", rec.ToAmount.StringFixed(2))
	assert.Equal(t, domain.CurrencyUSD, rec.ToCurrency)
	assert.True(t, rec.Rate.Equal(decimal.RequireFromString("0.012")))
}

func TestConversionService_RoundTripIsApproximate(t *testing.T) {
	svc, repo := setupConversionService(t)
	ctx := context.Background()
	session := ports.Session{AccountID: uuid.New()}
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)

	there, err := svc.Convert(ctx, session, convertReq("250", domain.CurrencyUSD, domain.CurrencyINR))
	require.NoError(t, err)
	assert.Equal(t, "20875.00", there.ToAmount.StringFixed(2))

	back, err := svc.Convert(ctx, session, ports.ConvertRequest{
		FromAmount:   there.ToAmount,
		FromCurrency: domain.CurrencyINR,
		ToCurrency:   domain.CurrencyUSD,
	})
	require.NoError(t, err)

	x := decimal.NewFromInt(250)
	assert.False(t, back.ToAmount.Equal(x), "rates are not exact inverses")
	drift := back.ToAmount.Sub(x).Abs().Div(x)
	assert.True(t, drift.LessThan(decimal.RequireFromString("0.01")), "drift %s", drift)
}

func TestConversionService_UnknownPair(t *testing.T) {
	svc, _ := setupConversionService(t)
	session := ports.Session{AccountID: uuid.New()}

	for _, c := range domain.Currencies {
		_, err := svc.Convert(context.Background(), session, convertReq("10", c, c))
		requireAppError(t, err, "PAY_002")
	}
}

func TestConversionService_Validation(t *testing.T) {
	svc, _ := setupConversionService(t)
	session := ports.Session{AccountID: uuid.New()}

	_, err := svc.Convert(context.Background(), session, convertReq("0", domain.CurrencyINR, domain.CurrencyUSD))
	requireAppError(t, err, "VAL_001")
	_, err = svc.Convert(context.Background(), session, convertReq("-3", domain.CurrencyINR, domain.CurrencyUSD))
	requireAppError(t, err, "VAL_001")
}

func TestConversionService_UnlistedCurrencyIsUnknownPair(t *testing.T) {
	svc, _ := setupConversionService(t)
	session := ports.Session{AccountID: uuid.New()}

	_, err := svc.Convert(context.Background(), session, convertReq("5", domain.Currency("JPY"), domain.CurrencyUSD))
	requireAppError(t, err, "PAY_002")
}

func TestConversionService_SubCentSourceAmount(t *testing.T) {
	svc, repo := setupConversionService(t)
	ctx := context.Background()
	session := ports.Session{AccountID: uuid.New()}

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.ConversionRecord) error {
			assert.Equal(t, "1.005", rec.FromAmount.String())
			return nil
		})

	rec, err := svc.Convert(ctx, session, convertReq("1.005", domain.CurrencyUSD, domain.CurrencyINR))
	require.NoError(t, err)
	assert.Equal(t, "83.92", rec.ToAmount.StringFixed(2))
	assert.True(t, rec.FromAmount.Equal(decimal.RequireFromString("1.005")))
}

func TestConversionService_StorageFailure(t *testing.T) {
	svc, repo := setupConversionService(t)
	ctx := context.Background()
	repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("timeout"))

	_, err := svc.Convert(ctx, ports.Session{AccountID: uuid.New()}, convertReq("10", domain.CurrencyEUR, domain.CurrencyUSD))
	requireAppError(t, err, "SYS_001")
}
