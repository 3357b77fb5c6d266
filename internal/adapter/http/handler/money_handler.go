package handler

import (
	"globalupi/internal/adapter/http/dto"
	"globalupi/internal/adapter/http/middleware"
	"globalupi/internal/core/domain"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"
	"globalupi/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets a client retry send-money safely.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// MoneyHandler handles send-money and currency conversion.
type MoneyHandler struct {
	transferSvc   ports.TransferService
	conversionSvc ports.ConversionService
}

// NewMoneyHandler creates a new MoneyHandler.
func NewMoneyHandler(transferSvc ports.TransferService, conversionSvc ports.ConversionService) *MoneyHandler {
	return &MoneyHandler{transferSvc: transferSvc, conversionSvc: conversionSvc}
}

// SendMoney handles POST /api/send-money.
func (h *MoneyHandler) SendMoney(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	var req dto.SendMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(dto.ValidationMessage(err)))
		return
	}
	dto.SanitizeStruct(&req)

	idemKey := c.GetHeader(HeaderIdempotencyKey)
	if len(idemKey) > maxIdempotencyKeyLen {
		response.Error(c, apperror.Validation("Idempotency-Key is too long"))
		return
	}

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		response.Error(c, apperror.ErrUnsupportedCurrency())
		return
	}

	result, err := h.transferSvc.SendMoney(c.Request.Context(), s, ports.SendMoneyRequest{
		Recipient: domain.Recipient{
			Name:          req.RecipientName,
			Email:         req.RecipientEmail,
			BankName:      req.RecipientBankName,
			AccountNumber: req.RecipientAccountNumber,
		},
		Amount:         *req.Amount,
		Currency:       currency,
		Message:        req.Message,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxAuditResourceID, result.Reference)
	response.OK(c, "Money sent successfully", &dto.SendMoneyResponse{
		TransactionID: result.Reference,
		NewBalance:    result.NewBalance.InexactFloat64(),
		Currency:      result.Currency.String(),
	})
}

// Convert handles POST /api/converter.
func (h *MoneyHandler) Convert(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(dto.ValidationMessage(err)))
		return
	}

	// Any code outside the rate table is an unlisted pair.
	from, err := domain.ParseCurrency(req.FromCurrency)
	if err != nil {
		response.Error(c, apperror.ErrUnknownPair())
		return
	}
	to, err := domain.ParseCurrency(req.ToCurrency)
	if err != nil {
		response.Error(c, apperror.ErrUnknownPair())
		return
	}

	rec, err := h.conversionSvc.Convert(c.Request.Context(), s, ports.ConvertRequest{
		FromAmount:   *req.FromAmount,
		FromCurrency: from,
		ToCurrency:   to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Conversion successful", &dto.ConvertResponse{
		FromAmount:   rec.FromAmount.InexactFloat64(),
		FromCurrency: rec.FromCurrency.String(),
		ToAmount:     rec.ToAmount.InexactFloat64(),
		ToCurrency:   rec.ToCurrency.String(),
		Rate:         rec.Rate.InexactFloat64(),
	})
}
