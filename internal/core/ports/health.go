package ports

import "context"

// HealthChecker is a dependency the purchase and claim paths cannot run
// without: the ledger store, the shared cache, the settlement RPC.
type HealthChecker interface {
Ping(ctx context.Context) error
Name() string
}

// Health states reported per dependency and for the service as a whole.
const (
HealthStatusHealthy   = "healthy"
HealthStatusUnhealthy = "unhealthy"
HealthStatusDegraded  = "degraded"
)

// DependencyHealth is one dependency's entry in a health report.
type DependencyHealth struct {
Status    string `json:"status"`
LatencyMS int64  `json:"latency_ms"`
Error     string `json:"error,omitempty"`
}
