package middleware

import (
	"fmt"
	"strconv"
	"time"

	"globalupi/internal/core/ports"
	"globalupi/pkg/apperror"
	"globalupi/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Endpoint groups with their own rate limit budget.
const (
	GroupSignup     = "auth_signup"
	GroupLogin      = "auth_login"
	GroupSendMoney  = "send_money"
	GroupConverter  = "converter"
	GroupDashboard  = "dashboard"
	GroupInvestment = "investments"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the rate limits per endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupSignup:     {Limit: 5, Window: time.Hour},
		GroupLogin:      {Limit: 10, Window: time.Minute},
		GroupSendMoney:  {Limit: 30, Window: time.Minute},
		GroupConverter:  {Limit: 60, Window: time.Minute},
		GroupDashboard:  {Limit: 120, Window: time.Minute},
		GroupInvestment: {Limit: 30, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Store errors let the request through.
func RateLimiter(store ports.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", extractIdentifier(c), group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		// Always set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys authenticated callers by account, others by IP.
func extractIdentifier(c *gin.Context) string {
	if s, ok := SessionFrom(c); ok {
		return "acct:" + s.AccountID.String()
	}
	return "ip:" + c.ClientIP()
}
