package domain

import "time"

// Login attempt outcome tags.
const (
	AuditSuccess          = "success"
	AuditValidationFailed = "validation_failed"
	AuditRateLimited      = "rate_limited"
	AuditUserNotFound     = "user_not_found"
	AuditInvalidPassword  = "invalid_password"
	AuditAdminProvisioned = "admin_provisioned"
	AuditAdminRepaired    = "admin_credential_repaired"
	AuditJwtSigningFailed = "jwt_signing_failed"
	AuditInternalError    = "internal_error"
)

// AuditEntry is an append-only record of one login attempt.
type AuditEntry struct {
	Id        string
	Event     string
	Outcome   string
	Email     Email
	IP        string
	UserAgent string
	Fields    map[string]string
	CreatedAt time.Time
}
