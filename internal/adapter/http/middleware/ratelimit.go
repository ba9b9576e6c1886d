package middleware

import (
"strconv"
"time"

"presale-backend/internal/core/ports"
"presale-backend/internal/metrics"
"presale-backend/pkg/apperror"
"presale-backend/pkg/response"

"github.com/gin-gonic/gin"
"github.com/rs/zerolog"
)

// WalletRateLimit creates a rate-limiting middleware for an endpoint group,
// keyed by the authenticated wallet (client IP before authentication).
func WalletRateLimit(limiter ports.RateLimiter, group string, log zerolog.Logger) gin.HandlerFunc {
return func(c *gin.Context) {
key := group + ":" + extractIdentifier(c)

decision, err := limiter.Allow(c.Request.Context(), key)
if err != nil {
log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
c.Next()
return
}

c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

if !decision.Allowed {
retryAfter := decision.RetryAfter
if retryAfter < time.Second {
retryAfter = time.Second
}
metrics.RecordRateLimitRejection()
response.Error(c, apperror.ErrRateLimited(retryAfter))
c.Abort()
return
}

c.Next()
}
}

// extractIdentifier determines the rate limit key source.
func extractIdentifier(c *gin.Context) string {
if w := c.GetString(CtxWallet); w != "" {
return w
}
return c.ClientIP()
}
