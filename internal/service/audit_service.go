package service

import (
"context"
"time"

"presale-backend/internal/core/domain"
"presale-backend/internal/core/ports"

"github.com/google/uuid"
"github.com/rs/zerolog"
)

type auditService struct {
repo ports.AuditRepository
log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit logs are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
return &auditService{repo: repo, log: log}
}

// Log records an audit entry asynchronously (fire-and-forget).
func (s *auditService) Log(ctx context.Context, entry *domain.AuditLog) {
if entry.ID == uuid.Nil {
entry.ID = uuid.New()
}
if entry.CreatedAt.IsZero() {
entry.CreatedAt = time.Now().UTC()
}
persistCtx := context.WithoutCancel(ctx)

go func() {
ev := s.log.Info().
Str("action", string(entry.Action)).
Str("resource_type", entry.ResourceType).
Str("resource_id", entry.ResourceID).
Str("ip", entry.IPAddress)
if entry.WalletAddress != nil {
ev = ev.Str("wallet", *entry.WalletAddress)
}
ev.Msg("audit")

if s.repo != nil {
if err := s.repo.Create(persistCtx, entry); err != nil {
s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
}
}
}()
}
