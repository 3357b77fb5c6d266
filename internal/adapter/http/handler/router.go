package handler

import (
	"globalupi/internal/adapter/http/middleware"
	"globalupi/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	TransferSvc    ports.TransferService
	ConversionSvc  ports.ConversionService
	DashboardSvc   ports.DashboardService
	InvestmentSvc  ports.InvestmentService
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	RateLimitRules map[string]middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := deps.RateLimitRules
	if rules == nil {
		rules = middleware.DefaultRateLimitRules()
	}

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	api := r.Group("/api")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", rl(middleware.GroupSignup), authHandler.Signup)
		auth.POST("/login", rl(middleware.GroupLogin), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	dashboardHandler := NewDashboardHandler(deps.DashboardSvc)
	moneyHandler := NewMoneyHandler(deps.TransferSvc, deps.ConversionSvc)
	investmentHandler := NewInvestmentHandler(deps.InvestmentSvc)

	dashboard := api.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("/balance", rl(middleware.GroupDashboard), dashboardHandler.GetBalance)
		dashboard.GET("/user", rl(middleware.GroupDashboard), dashboardHandler.GetUser)
	}

	authed := api.Group("", jwtAuth)
	{
		authed.POST("/send-money", rl(middleware.GroupSendMoney), moneyHandler.SendMoney)
		authed.POST("/converter", rl(middleware.GroupConverter), moneyHandler.Convert)
		authed.GET("/transactions", rl(middleware.GroupDashboard), dashboardHandler.ListTransactions)
		authed.GET("/investments", rl(middleware.GroupDashboard), investmentHandler.List)
		authed.POST("/investments", rl(middleware.GroupInvestment), investmentHandler.Add)
	}

	return r
}
