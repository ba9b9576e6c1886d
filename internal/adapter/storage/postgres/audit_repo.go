package postgres

import (
"context"
"fmt"

"presale-backend/internal/core/domain"
"presale-backend/internal/core/ports"
)

type auditRepo struct {
pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
_, err := r.pool.Exec(ctx,
`INSERT INTO audit_logs (id, wallet_address, action, resource_type, resource_id, details, ip_address, created_at)
 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
entry.ID, entry.WalletAddress, string(entry.Action), entry.ResourceType,
entry.ResourceID, entry.Details, entry.IPAddress, entry.CreatedAt,
)
if err != nil {
return fmt.Errorf("insert audit log: %w", err)
}
return nil
}
