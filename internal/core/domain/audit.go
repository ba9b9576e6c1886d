package domain

import (
"time"

"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
AuditActionPurchase    AuditAction = "PURCHASE"
AuditActionClaim       AuditAction = "CLAIM"
AuditActionReferral    AuditAction = "REFERRAL"
AuditActionLogin       AuditAction = "LOGIN"
AuditActionTokenUpsert AuditAction = "TOKEN_UPSERT"
AuditActionReconcile   AuditAction = "RECONCILE"
AuditActionDenied      AuditAction = "DENIED"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
ID            uuid.UUID   `json:"id"`
WalletAddress *string     `json:"wallet_address,omitempty"`
Action        AuditAction `json:"action"`
ResourceType  string      `json:"resource_type"`
ResourceID    string      `json:"resource_id,omitempty"`
Details       string      `json:"details,omitempty"` // JSON string
IPAddress     string      `json:"ip_address"`
CreatedAt     time.Time   `json:"created_at"`
}
