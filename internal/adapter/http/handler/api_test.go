package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpHandler "globalupi/internal/adapter/http/handler"
	"globalupi/internal/adapter/http/middleware"
	"globalupi/internal/adapter/storage/memory"
	redisStorage "globalupi/internal/adapter/storage/redis"
	"globalupi/internal/core/ports"
	"globalupi/internal/service"
	"globalupi/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full stack over the in-memory store, with Redis
// (miniredis) behind idempotency. It exercises the real HTTP layer,
// middleware, handlers, services, and stores end-to-end.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
}

type appOptions struct {
	rateLimit ports.RateLimitStore
	rules     map[string]middleware.RateLimitRule
}

// cheapHash keeps signup fast under test.
var cheapHash = service.Argon2idParams{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := memory.New()
	accounts := memory.NewAccountRepo(store)
	txns := memory.NewTransactionRepo(store)
	log := logger.New("error", false)

	tokenSvc, err := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "globalupi-test")
	require.NoError(t, err)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        service.NewAuthService(accounts, service.NewArgon2HashServiceWithParams(cheapHash), tokenSvc, log),
		TransferSvc:    service.NewTransferService(accounts, txns, memory.NewTransactor(store), redisStorage.NewIdempotencyCache(rdb), log),
		ConversionSvc:  service.NewConversionService(memory.NewConversionRepo(store), log),
		DashboardSvc:   service.NewDashboardService(accounts, txns),
		InvestmentSvc:  service.NewInvestmentService(memory.NewInvestmentRepo(store)),
		TokenSvc:       tokenSvc,
		RateLimitStore: opts.rateLimit,
		RateLimitRules: opts.rules,
		HealthCheckers: []ports.HealthChecker{memory.NewHealthCheck(store), redisStorage.NewHealthCheck(rdb)},
		AuditSvc:       service.NewAuditService(log, nil),
		Logger:         log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testApp{server: srv, redis: mr}
}

type apiResponse struct {
	status int
	header http.Header
	body   map[string]any
}

func (a *testApp) do(t *testing.T, method, path, token string, body any, headers ...string) apiResponse {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := apiResponse{status: resp.StatusCode, header: resp.Header}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out.body))
	return out
}

func signupPayload(email string) map[string]any {
	return map[string]any{
		"name":          gofakeit.Name(),
		"email":         email,
		"phone":         gofakeit.Phone(),
		"bankName":      gofakeit.Company(),
		"accountNumber": gofakeit.Numerify("############"),
		"password":      "Str0ngPass!",
	}
}

func (a *testApp) signup(t *testing.T) (token, email string) {
	t.Helper()
	email = gofakeit.Email()
	r := a.do(t, http.MethodPost, "/api/auth/signup", "", signupPayload(email))
	require.Equal(t, http.StatusCreated, r.status, r.body)
	return r.body["token"].(string), email
}

func sendPayload(amount any, currency string) map[string]any {
	return map[string]any{
		"recipientName":          "Asha Rao",
		"recipientEmail":         "asha@example.com",
		"recipientBankName":      "SBI",
		"recipientAccountNumber": "123456789",
		"amount":                 amount,
		"currency":               currency,
	}
}

func balances(t *testing.T, a *testApp, token string) map[string]any {
	t.Helper()
	r := a.do(t, http.MethodGet, "/api/dashboard/balance", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	return r.body["balances"].(map[string]any)
}

func TestAPI_FullFlow(t *testing.T) {
	app := newTestApp(t, appOptions{})

	// Signup
	email := "Ravi.Kumar@Example.com"
	r := app.do(t, http.MethodPost, "/api/auth/signup", "", signupPayload(email))
	require.Equal(t, http.StatusCreated, r.status, r.body)
	assert.Equal(t, "Account created successfully", r.body["message"])
	assert.Equal(t, "ravi.kumar@example.com", r.body["user"].(map[string]any)["email"])
	assert.NotEmpty(t, r.header.Get(middleware.HeaderRequestID))

	// Duplicate email, any case
	r = app.do(t, http.MethodPost, "/api/auth/signup", "", signupPayload("RAVI.KUMAR@example.com"))
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "AUTH_002", r.body["error_code"])

	// Login
	r = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": "Str0ngPass!"})
	require.Equal(t, http.StatusOK, r.status)
	token := r.body["token"].(string)

	r = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "AUTH_001", r.body["error_code"])

	// Starting balances
	b := balances(t, app, token)
	assert.Equal(t, 25500.0, b["balance_inr"])
	assert.Equal(t, 500.0, b["balance_usd"])
	assert.Equal(t, 300.0, b["balance_eur"])

	// Profile
	r = app.do(t, http.MethodGet, "/api/dashboard/user", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "ravi.kumar@example.com", r.body["user"].(map[string]any)["email"])

	// Send
	r = app.do(t, http.MethodPost, "/api/send-money", token, sendPayload(1000, "INR"))
	require.Equal(t, http.StatusOK, r.status, r.body)
	assert.Equal(t, "Money sent successfully", r.body["message"])
	assert.Equal(t, 24500.0, r.body["newBalance"])
	txnRef := r.body["transactionId"].(string)
	assert.Regexp(t, `^TXN\d+$`, txnRef)

	b = balances(t, app, token)
	assert.Equal(t, 24500.0, b["balance_inr"])
	assert.Equal(t, 500.0, b["balance_usd"])

	// Insufficient
	r = app.do(t, http.MethodPost, "/api/send-money", token, sendPayload("300.01", "EUR"))
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "PAY_001", r.body["error_code"])
	assert.Equal(t, 300.0, balances(t, app, token)["balance_eur"])

	// History
	r = app.do(t, http.MethodGet, "/api/transactions?type=sent", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	list := r.body["transactions"].([]any)
	require.Len(t, list, 1)
	row := list[0].(map[string]any)
	assert.Equal(t, txnRef, row["reference"])
	assert.Equal(t, 1000.0, row["amount"])
	assert.Equal(t, "INR", row["currency"])
	assert.Equal(t, "completed", row["status"])

	r = app.do(t, http.MethodGet, "/api/transactions?type=received", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Empty(t, r.body["transactions"])

	// Convert never moves balances
	r = app.do(t, http.MethodPost, "/api/converter", token, map[string]any{"fromAmount": 100, "fromCurrency": "INR", "toCurrency": "USD"})
	require.Equal(t, http.StatusOK, r.status, r.body)
	assert.Equal(t, 1.2, r.body["toAmount"])
	assert.Equal(t, 0.012, r.body["rate"])
	assert.Equal(t, 24500.0, balances(t, app, token)["balance_inr"])

	r = app.do(t, http.MethodPost, "/api/converter", token, map[string]any{"fromAmount": 100, "fromCurrency": "USD", "toCurrency": "USD"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "PAY_002", r.body["error_code"])

	// Investments
	r = app.do(t, http.MethodPost, "/api/investments", token, map[string]any{
		"symbol": "niftybees", "name": "Nifty ETF", "type": "ETF", "quantity": 10, "currentPrice": 245.1, "performance": 2.5,
	})
	require.Equal(t, http.StatusCreated, r.status, r.body)
	r = app.do(t, http.MethodGet, "/api/investments", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	inv := r.body["investments"].([]any)
	require.Len(t, inv, 1)
	assert.Equal(t, "NIFTYBEES", inv[0].(map[string]any)["symbol"])
	assert.Equal(t, 2451.0, inv[0].(map[string]any)["market_value"])

	// Health
	r = app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "healthy", r.body["status"])
}

func TestAPI_HistoryKeepsTextAsSent(t *testing.T) {
	app := newTestApp(t, appOptions{})
	token, _ := app.signup(t)

	body := sendPayload(25, "INR")
	body["recipientName"] = "O'Brien & Sons"
	body["recipientBankName"] = "Bank <North>"
	body["message"] = "Rent <June> & 'utilities'"
	r := app.do(t, http.MethodPost, "/api/send-money", token, body)
	require.Equal(t, http.StatusOK, r.status, r.body)

	r = app.do(t, http.MethodGet, "/api/transactions?type=sent", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	list := r.body["transactions"].([]any)
	require.Len(t, list, 1)
	row := list[0].(map[string]any)
	assert.Equal(t, "O'Brien & Sons", row["recipient_name"])
	assert.Equal(t, "Bank <North>", row["recipient_bank_name"])
	assert.Equal(t, "Rent <June> & 'utilities'", row["description"])
}

func TestAPI_ConvertQuotes(t *testing.T) {
	app := newTestApp(t, appOptions{})
	token, _ := app.signup(t)

	r := app.do(t, http.MethodPost, "/api/converter", token, map[string]any{"fromAmount": 1.005, "fromCurrency": "USD", "toCurrency": "INR"})
	require.Equal(t, http.StatusOK, r.status, r.body)
	assert.Equal(t, 83.92, r.body["toAmount"])
	assert.Equal(t, 500.0, balances(t, app, token)["balance_usd"])

	r = app.do(t, http.MethodPost, "/api/converter", token, map[string]any{"fromAmount": 10, "fromCurrency": "GBP", "toCurrency": "INR"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "PAY_002", r.body["error_code"])

	r = app.do(t, http.MethodPost, "/api/converter", token, map[string]any{"fromAmount": -1, "fromCurrency": "USD", "toCurrency": "INR"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "VAL_001", r.body["error_code"])
}

func TestAPI_RequiresToken(t *testing.T) {
	app := newTestApp(t, appOptions{})

	r := app.do(t, http.MethodGet, "/api/dashboard/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "No token provided", r.body["message"])

	r = app.do(t, http.MethodPost, "/api/send-money", "not-a-jwt", sendPayload(1, "INR"))
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "AUTH_003", r.body["error_code"])
	assert.NotEmpty(t, r.body["request_id"])
}

func TestAPI_AccountsAreIsolated(t *testing.T) {
	app := newTestApp(t, appOptions{})
	alice, _ := app.signup(t)
	bob, _ := app.signup(t)

	r := app.do(t, http.MethodPost, "/api/send-money", alice, sendPayload(50, "USD"))
	require.Equal(t, http.StatusOK, r.status)

	assert.Equal(t, 450.0, balances(t, app, alice)["balance_usd"])
	assert.Equal(t, 500.0, balances(t, app, bob)["balance_usd"])

	r = app.do(t, http.MethodGet, "/api/transactions", bob, nil)
	assert.Empty(t, r.body["transactions"])
}

func TestAPI_DoubleSpendRace(t *testing.T) {
	app := newTestApp(t, appOptions{})
	token, _ := app.signup(t)

	const attempts = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			raw, _ := json.Marshal(sendPayload(500, "USD"))
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/send-money", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, statuses[http.StatusOK], "exactly one full-balance send wins: %v", statuses)
	assert.Equal(t, attempts-1, statuses[http.StatusBadRequest], "%v", statuses)
	assert.Equal(t, 0.0, balances(t, app, token)["balance_usd"])

	r := app.do(t, http.MethodGet, "/api/transactions?type=sent", token, nil)
	assert.Len(t, r.body["transactions"], 1)
}

func TestAPI_IdempotentReplay(t *testing.T) {
	app := newTestApp(t, appOptions{})
	token, _ := app.signup(t)

	first := app.do(t, http.MethodPost, "/api/send-money", token, sendPayload(100, "EUR"), httpHandler.HeaderIdempotencyKey, "pay-rent-oct")
	require.Equal(t, http.StatusOK, first.status, first.body)
	second := app.do(t, http.MethodPost, "/api/send-money", token, sendPayload(100, "EUR"), httpHandler.HeaderIdempotencyKey, "pay-rent-oct")
	require.Equal(t, http.StatusOK, second.status, second.body)

	assert.Equal(t, first.body["transactionId"], second.body["transactionId"])
	assert.Equal(t, 200.0, balances(t, app, token)["balance_eur"])

	r := app.do(t, http.MethodGet, "/api/transactions", token, nil)
	assert.Len(t, r.body["transactions"], 1)

	// Another key is another transfer.
	third := app.do(t, http.MethodPost, "/api/send-money", token, sendPayload(100, "EUR"), httpHandler.HeaderIdempotencyKey, "pay-rent-nov")
	require.Equal(t, http.StatusOK, third.status)
	assert.NotEqual(t, first.body["transactionId"], third.body["transactionId"])
	assert.Equal(t, 100.0, balances(t, app, token)["balance_eur"])
}

func TestAPI_IdempotencyDegradesWithoutRedis(t *testing.T) {
	app := newTestApp(t, appOptions{})
	token, _ := app.signup(t)
	app.redis.Close()

	r := app.do(t, http.MethodPost, "/api/send-money", token, sendPayload(10, "INR"), httpHandler.HeaderIdempotencyKey, "k1")
	require.Equal(t, http.StatusOK, r.status, r.body)

	r = app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, r.status)
	assert.Equal(t, "degraded", r.body["status"])
}

func TestAPI_SignupRateLimited(t *testing.T) {
	app := newTestApp(t, appOptions{
		rateLimit: memory.NewRateLimitStore(),
		rules: map[string]middleware.RateLimitRule{
			middleware.GroupSignup: {Limit: 2, Window: time.Hour},
		},
	})

	for i := 0; i < 2; i++ {
		r := app.do(t, http.MethodPost, "/api/auth/signup", "", signupPayload(fmt.Sprintf("user%d@example.com", i)))
		require.Equal(t, http.StatusCreated, r.status)
		assert.Equal(t, "2", r.header.Get("X-RateLimit-Limit"))
	}

	r := app.do(t, http.MethodPost, "/api/auth/signup", "", signupPayload("user3@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, r.status)
	assert.Equal(t, "RATE_001", r.body["error_code"])
	assert.NotEmpty(t, r.header.Get("Retry-After"))
}
