package handler

import (
	"strconv"

	"globalupi/internal/adapter/http/dto"
	"globalupi/internal/adapter/http/middleware"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"
	"globalupi/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InvestmentHandler handles the holdings endpoints.
type InvestmentHandler struct {
	investmentSvc ports.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentSvc ports.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentSvc: investmentSvc}
}

// List handles GET /api/investments.
func (h *InvestmentHandler) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	list, err := h.investmentSvc.List(c.Request.Context(), s)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", &dto.InvestmentListResponse{Investments: dto.NewInvestmentItems(list)})
}

// Add handles POST /api/investments.
func (h *InvestmentHandler) Add(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	var req dto.AddInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(dto.ValidationMessage(err)))
		return
	}
	dto.SanitizeStruct(&req)

	performance := decimal.Zero
	if req.Performance != nil {
		performance = *req.Performance
	}

	inv, err := h.investmentSvc.Add(c.Request.Context(), s, ports.AddInvestmentRequest{
		Symbol:       req.Symbol,
		Name:         req.Name,
		Type:         req.Type,
		Quantity:     *req.Quantity,
		CurrentPrice: *req.CurrentPrice,
		Performance:  performance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxAuditResourceID, strconv.FormatInt(inv.ID, 10))
	response.Created(c, "Investment added successfully", &dto.AddInvestmentResponse{InvestmentID: inv.ID})
}
