package handler

import (
	"globalupi/internal/adapter/http/dto"
	"globalupi/internal/adapter/http/middleware"
	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"
	"globalupi/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles the read-side endpoints.
type DashboardHandler struct {
	dashboardSvc ports.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardSvc ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// session returns the caller or writes AUTH_003 and reports false.
func session(c *gin.Context) (ports.Session, bool) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized())
	}
	return s, ok
}

// GetBalance handles GET /api/dashboard/balance.
func (h *DashboardHandler) GetBalance(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	balances, err := h.dashboardSvc.GetBalances(c.Request.Context(), s)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", &dto.BalanceResponse{Balances: dto.NewBalancesBody(balances)})
}

// GetUser handles GET /api/dashboard/user.
func (h *DashboardHandler) GetUser(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	account, err := h.dashboardSvc.GetProfile(c.Request.Context(), s)
	if err != nil {
		response.Error(c, err)
		return
	}

	user := dto.NewUserResponse(account)
	user.BankName, user.AccountNumber = "", ""
	response.OK(c, "", &dto.ProfileResponse{User: user})
}

// ListTransactions handles GET /api/transactions.
func (h *DashboardHandler) ListTransactions(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}

	var q dto.TransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation("limit and offset must be non-negative integers"))
		return
	}

	records, err := h.dashboardSvc.ListTransactions(c.Request.Context(), s, ports.HistoryFilter{
		Type:   q.Type,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", &dto.TransactionListResponse{Transactions: dto.NewTransactionItems(records)})
}
