package dto

import (
	"time"

	"globalupi/internal/core/domain"
	"globalupi/pkg/response"

	"github.com/shopspring/decimal"
)

// ---- Requests ----

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email,max=254"`
	Phone         string `json:"phone" binding:"required,max=32"`
	BankName      string `json:"bankName" binding:"required,max=100"`
	AccountNumber string `json:"accountNumber" binding:"required,max=34"`
	Password      string `json:"password" binding:"required,min=8,max=128" sanitize:"-"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// SendMoneyRequest is the request body for an outgoing transfer.
// Amounts accept a JSON number or a numeric string.
type SendMoneyRequest struct {
	RecipientName          string           `json:"recipientName" binding:"required,max=100"`
	RecipientEmail         string           `json:"recipientEmail" binding:"required,max=254"`
	RecipientBankName      string           `json:"recipientBankName" binding:"required,max=100"`
	RecipientAccountNumber string           `json:"recipientAccountNumber" binding:"required,max=34"`
	Amount                 *decimal.Decimal `json:"amount" binding:"required"`
	Currency               string           `json:"currency" binding:"required,currency"`
	Message                string           `json:"message" binding:"max=255"`
}

// ConvertRequest is the request body for a currency quote.
type ConvertRequest struct {
	FromAmount   *decimal.Decimal `json:"fromAmount" binding:"required"`
	FromCurrency string           `json:"fromCurrency" binding:"required"`
	ToCurrency   string           `json:"toCurrency" binding:"required"`
}

// AddInvestmentRequest is the request body for a new holding.
type AddInvestmentRequest struct {
	Symbol       string           `json:"symbol" binding:"required,safe_id,max=20"`
	Name         string           `json:"name" binding:"required,max=100"`
	Type         string           `json:"type" binding:"required,max=30"`
	Quantity     *decimal.Decimal `json:"quantity" binding:"required"`
	CurrentPrice *decimal.Decimal `json:"currentPrice" binding:"required"`
	Performance  *decimal.Decimal `json:"performance"`
}

// TransactionsQuery is the query string of the history endpoint.
type TransactionsQuery struct {
	Type   string `form:"type"`
	Limit  int    `form:"limit" binding:"min=0"`
	Offset int    `form:"offset" binding:"min=0"`
}

// ---- Responses ----

// UserResponse is the public view of an account.
type UserResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	response.Envelope
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"` // Unix timestamp
	User      UserResponse `json:"user"`
}

// ProfileResponse is returned by the profile endpoint.
type ProfileResponse struct {
	response.Envelope
	User UserResponse `json:"user"`
}

// BalancesBody holds the three balances.
type BalancesBody struct {
	INR float64 `json:"balance_inr"`
	USD float64 `json:"balance_usd"`
	EUR float64 `json:"balance_eur"`
}

// BalanceResponse is returned by the balance endpoint.
type BalanceResponse struct {
	response.Envelope
	Balances BalancesBody `json:"balances"`
}

// SendMoneyResponse is returned by a successful transfer.
type SendMoneyResponse struct {
	response.Envelope
	TransactionID string  `json:"transactionId"`
	NewBalance    float64 `json:"newBalance"`
	Currency      string  `json:"currency"`
}

// ConvertResponse is returned by a successful quote.
type ConvertResponse struct {
	response.Envelope
	FromAmount   float64 `json:"fromAmount"`
	FromCurrency string  `json:"fromCurrency"`
	ToAmount     float64 `json:"toAmount"`
	ToCurrency   string  `json:"toCurrency"`
	Rate         float64 `json:"rate"`
}

// TransactionItem is one history row.
type TransactionItem struct {
	ID                     int64   `json:"id"`
	Reference              string  `json:"reference"`
	Type                   string  `json:"type"`
	RecipientName          string  `json:"recipient_name,omitempty"`
	RecipientEmail         string  `json:"recipient_email,omitempty"`
	RecipientBankName      string  `json:"recipient_bank_name,omitempty"`
	RecipientAccountNumber string  `json:"recipient_account_number,omitempty"`
	Amount                 float64 `json:"amount"`
	Currency               string  `json:"currency"`
	Description            string  `json:"description"`
	Status                 string  `json:"status"`
	CreatedAt              string  `json:"created_at"`
}

// TransactionListResponse is returned by the history endpoint.
type TransactionListResponse struct {
	response.Envelope
	Transactions []TransactionItem `json:"transactions"`
}

// InvestmentItem is one holding.
type InvestmentItem struct {
	ID           int64   `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Quantity     float64 `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	Performance  float64 `json:"performance"`
	MarketValue  float64 `json:"market_value"`
	CreatedAt    string  `json:"created_at"`
}

// InvestmentListResponse is returned by the holdings endpoint.
type InvestmentListResponse struct {
	response.Envelope
	Investments []InvestmentItem `json:"investments"`
}

// AddInvestmentResponse is returned when a holding is recorded.
type AddInvestmentResponse struct {
	response.Envelope
	InvestmentID int64 `json:"investmentId"`
}

// ---- Mapping ----

// NewUserResponse maps an account to its public view.
func NewUserResponse(a *domain.Account) UserResponse {
	return UserResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
	}
}

// NewBalancesBody converts balances to JSON numbers.
func NewBalancesBody(b *domain.Balances) BalancesBody {
	return BalancesBody{
		INR: b.INR.InexactFloat64(),
		USD: b.USD.InexactFloat64(),
		EUR: b.EUR.InexactFloat64(),
	}
}

// NewTransactionItems maps ledger records to history rows. The result is never nil.
func NewTransactionItems(records []domain.TransactionRecord) []TransactionItem {
	items := make([]TransactionItem, 0, len(records))
	for i := range records {
		r := &records[i]
		item := TransactionItem{
			ID:          r.ID,
			Reference:   r.Reference(),
			Type:        string(r.Kind),
			Amount:      r.Amount.InexactFloat64(),
			Currency:    r.Currency.String(),
			Description: r.Description,
			Status:      string(r.Status),
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if r.Recipient != nil {
			item.RecipientName = r.Recipient.Name
			item.RecipientEmail = r.Recipient.Email
			item.RecipientBankName = r.Recipient.BankName
			item.RecipientAccountNumber = r.Recipient.AccountNumber
		}
		items = append(items, item)
	}
	return items
}

// NewInvestmentItems maps holdings to response rows. The result is never nil.
func NewInvestmentItems(list []domain.Investment) []InvestmentItem {
	items := make([]InvestmentItem, 0, len(list))
	for i := range list {
		inv := &list[i]
		items = append(items, InvestmentItem{
			ID:           inv.ID,
			Symbol:       inv.Symbol,
			Name:         inv.Name,
			Type:         inv.Type,
			Quantity:     inv.Quantity.InexactFloat64(),
			CurrentPrice: inv.CurrentPrice.InexactFloat64(),
			Performance:  inv.Performance.InexactFloat64(),
			MarketValue:  inv.MarketValue().InexactFloat64(),
			CreatedAt:    inv.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return items
}

