package middleware

import (
"encoding/json"
"net/http"
"time"

"presale-backend/internal/core/domain"
"presale-backend/internal/core/ports"

"github.com/gin-gonic/gin"
"github.com/google/uuid"
)

// AuditDenied creates an audit middleware that records write requests
// refused for authentication, authorization or rate limiting. Accepted
// writes are audited by the services that perform them.
func AuditDenied(auditSvc ports.AuditService) gin.HandlerFunc {
return func(c *gin.Context) {
c.Next()

status := c.Writer.Status()
if status != http.StatusUnauthorized && status != http.StatusForbidden && status != http.StatusTooManyRequests {
return
}
if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
return
}

resourceType := mapPathToResource(c.FullPath())
if resourceType == "" {
return
}

var wallet *string
if w := c.GetString(CtxWallet); w != "" {
wallet = &w
}

details, _ := json.Marshal(map[string]interface{}{
"method": c.Request.Method,
"path":   c.Request.URL.Path,
"status": status,
})

auditSvc.Log(c.Request.Context(), &domain.AuditLog{
ID:            uuid.New(),
WalletAddress: wallet,
Action:        domain.AuditActionDenied,
ResourceType:  resourceType,
ResourceID:    c.Param("id") + c.Param("symbol"),
IPAddress:     c.ClientIP(),
Details:       string(details),
CreatedAt:     time.Now(),
})
}
}

func mapPathToResource(route string) string {
switch route {
case "/api/v1/auth/login":
return "session"
case "/api/v1/purchases":
return "purchase"
case "/api/v1/purchases/:id/claim":
return "claim"
case "/api/v1/referrals":
return "referral"
case "/api/v1/admin/tokens/:symbol":
return "token_config"
}
return ""
}
