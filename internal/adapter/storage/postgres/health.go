package postgres

import (
"context"
"fmt"
)

// ledgerTables must exist for purchases to settle.
var ledgerTables = []string{"token_configs", "settlement_attempts", "purchases", "referral_links"}

// HealthCheck reports whether the ledger database is reachable and migrated.
type HealthCheck struct {
pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
return &HealthCheck{pool: pool}
}

// Ping counts the ledger tables visible on the search path.
func (h *HealthCheck) Ping(ctx context.Context) error {
var n int
err := h.pool.QueryRow(ctx,
`SELECT count(*) FROM information_schema.tables
 WHERE table_schema = current_schema() AND table_name = ANY($1)`,
ledgerTables,
).Scan(&n)
if err != nil {
return fmt.Errorf("ledger ping: %w", err)
}
if n != len(ledgerTables) {
return fmt.Errorf("ledger schema incomplete: %d of %d tables", n, len(ledgerTables))
}
return nil
}

func (h *HealthCheck) Name() string {
return "postgresql"
}
