package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/skyreport-dev/skyreport/internal/api"
	"github.com/skyreport-dev/skyreport/internal/config"
	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
	"github.com/skyreport-dev/skyreport/internal/jwt"
	"github.com/skyreport-dev/skyreport/internal/logger"
	"github.com/skyreport-dev/skyreport/internal/ratelimit"
)

const genericLoginError = "Login failed, try again later"

// to mock service in tests
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (string, error)
}

// LoginInput carries one login attempt through the orchestrator.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
	// Malformed marks a request whose body failed to decode. The attempt
	// still consumes rate budget and still gets an audit entry.
	Malformed bool
}

// AuditRecorder is satisfied by *audit.Recorder.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

type AuthStorage interface {
	Account(ctx context.Context, email domain.Email) (domain.Account, error)
	SaveAccount(ctx context.Context, account domain.Account) (domain.AccountId, error)
	CountAccounts(ctx context.Context) (int, error)
	UpdateCredential(ctx context.Context, id domain.AccountId, credential string) error
	// ReplaceAdminCredential atomically overwrites the credential of the
	// administrator account with the given email. It must be a single update
	// statement and must not touch non-admin accounts.
	ReplaceAdminCredential(ctx context.Context, email domain.Email, credential string) (domain.Account, error)
}

type Auth struct {
	storage  AuthStorage
	limiter  *ratelimit.Limiter
	audit    AuditRecorder
	jwt      jwt.JwtService
	cfg      *config.Config
	validate *validator.Validate
}

func NewAuth(storage AuthStorage, limiter *ratelimit.Limiter, recorder AuditRecorder, jwt jwt.JwtService, cfg *config.Config) *Auth {
	return &Auth{
		storage:  storage,
		limiter:  limiter,
		audit:    recorder,
		jwt:      jwt,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Login runs one attempt through rate limiting, validation, account
// resolution, credential verification and token issuance. Every path out of
// this method produces exactly one audit entry.
func (a *Auth) Login(ctx context.Context, in LoginInput) (string, error) {
	rl := a.limiter.Check(ctx, ratelimit.Key("login", in.IP), a.cfg.Public.LoginMaxAttempts, a.cfg.Public.LoginWindow)
	if !rl.Allowed {
		retryAfter := rl.RetryAfter(time.Now())
		a.record(ctx, domain.AuditRateLimited, in, map[string]string{
			"retry_after": fmt.Sprintf("%ds", retryAfter),
		})
		return "", &internal_errors.RateLimited{
			Message:    fmt.Sprintf("Too many login attempts. Try again in %s", (time.Duration(retryAfter) * time.Second).String()),
			RetryAfter: retryAfter,
		}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	in.Email = email

	if in.Malformed {
		a.record(ctx, domain.AuditValidationFailed, in, map[string]string{"reason": "malformed body"})
		return "", internal_errors.BadRequest("Body is invalid json")
	}
	if err := a.validate.Struct(api.LoginRequest{Email: email, Password: in.Password}); err != nil {
		a.record(ctx, domain.AuditValidationFailed, in, map[string]string{"reason": err.Error()})
		return "", internal_errors.BadRequest("Invalid credentials format")
	}

	account, err := a.storage.Account(ctx, email)
	if err != nil {
		if !internal_errors.IsNotFound(err) {
			logger.Log.Error("account lookup failed", "error", err)
			a.record(ctx, domain.AuditInternalError, in, map[string]string{"error": "account lookup failed"})
			return "", &internal_errors.ErrorWithStatusCode{Message: genericLoginError, StatusCode: 500}
		}

		provisioned, perr := a.provisionAdmin(ctx, email, in.Password)
		if perr != nil {
			logger.Log.Error("admin provisioning failed", "email", email, "error", perr)
			a.record(ctx, domain.AuditInternalError, in, map[string]string{"error": "provisioning failed"})
			return "", &internal_errors.ErrorWithStatusCode{Message: genericLoginError, StatusCode: 500}
		}
		if provisioned == nil {
			// to not leak existing users
			a.record(ctx, domain.AuditUserNotFound, in, nil)
			return "", internal_errors.Unauthorized("Invalid credentials")
		}
		account = *provisioned

		v := verifyCredential(email, in.Password, account.Credential, !a.cfg.Production())
		if !v.OK {
			a.record(ctx, domain.AuditInvalidPassword, in, map[string]string{"provisioned": "true"})
			return "", internal_errors.Unauthorized("Invalid credentials")
		}
		return a.issueToken(ctx, account, in, domain.AuditAdminProvisioned, nil)
	}

	v := verifyCredential(email, in.Password, account.Credential, !a.cfg.Production())
	if !v.OK {
		// Self-heal: the designated admin account exists but its stored
		// credential no longer verifies, e.g. after a config/database drift.
		// The overwrite gets its own outcome tag because it mutates state.
		if email == strings.ToLower(a.cfg.Public.AdminEmail) {
			healed, herr := a.repairAdminCredential(ctx, email, in.Password)
			if herr == nil {
				return a.issueToken(ctx, healed, in, domain.AuditAdminRepaired, nil)
			}
			logger.Log.Error("admin credential repair failed", "email", email, "error", herr)
		}
		a.record(ctx, domain.AuditInvalidPassword, in, nil)
		return "", internal_errors.Unauthorized("Invalid credentials")
	}

	if v.ShouldUpgrade {
		a.upgradeCredential(ctx, account, in.Password)
	}

	var fields map[string]string
	if v.WeakCompare {
		fields = map[string]string{"weak_compare": "true"}
	}
	if v.Demo {
		fields = map[string]string{"demo": "true"}
	}
	return a.issueToken(ctx, account, in, domain.AuditSuccess, fields)
}

// provisionAdmin creates the administrator account when the attempted email
// is the designated admin email, or when the account store is empty
// (bootstrap). Returns nil when neither applies.
func (a *Auth) provisionAdmin(ctx context.Context, email domain.Email, password string) (*domain.Account, error) {
	adminEmail := strings.ToLower(a.cfg.Public.AdminEmail)

	if email != adminEmail {
		count, err := a.storage.CountAccounts(ctx)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, nil
		}
	}

	secret := a.cfg.Private.AdminPassword
	if secret == "" {
		secret = password
	}
	credential, err := hashCredential(secret)
	if err != nil {
		return nil, err
	}

	account := domain.Account{
		Email:      email,
		Credential: credential,
		FirstName:  "Safety",
		LastName:   "Administrator",
		Admin:      true,
	}
	id, err := a.storage.SaveAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	account.Id = id
	return &account, nil
}

// repairAdminCredential overwrites the admin credential with a hash of the
// configured admin password (or the attempted one when none is configured)
// in a single atomic update.
func (a *Auth) repairAdminCredential(ctx context.Context, email domain.Email, password string) (domain.Account, error) {
	secret := a.cfg.Private.AdminPassword
	if secret == "" {
		secret = password
	}
	credential, err := hashCredential(secret)
	if err != nil {
		return domain.Account{}, err
	}
	// Detached from request cancellation: a disconnect mid-repair must not
	// leave the credential half-written.
	return a.storage.ReplaceAdminCredential(context.WithoutCancel(ctx), email, credential)
}

// upgradeCredential replaces a verified legacy plaintext credential with a
// bcrypt hash. Best-effort: failure is logged and never fails the login.
func (a *Auth) upgradeCredential(ctx context.Context, account domain.Account, password string) {
	credential, err := hashCredential(password)
	if err != nil {
		logger.Log.Error("failed to hash credential for upgrade", "email", account.Email, "error", err)
		return
	}
	if err := a.storage.UpdateCredential(context.WithoutCancel(ctx), account.Id, credential); err != nil {
		logger.Log.Warn("failed to upgrade legacy credential", "email", account.Email, "error", err)
	}
}

func (a *Auth) issueToken(ctx context.Context, account domain.Account, in LoginInput, outcome string, fields map[string]string) (string, error) {
	token, err := a.jwt.NewToken(account)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "account_id", account.Id, "error", err)
		a.record(ctx, domain.AuditJwtSigningFailed, in, nil)
		return "", &internal_errors.ErrorWithStatusCode{Message: genericLoginError, StatusCode: 500}
	}
	a.record(ctx, outcome, in, fields)
	return token, nil
}

func (a *Auth) record(ctx context.Context, outcome string, in LoginInput, fields map[string]string) {
	a.audit.Record(ctx, domain.AuditEntry{
		Outcome:   outcome,
		Email:     in.Email,
		IP:        in.IP,
		UserAgent: in.UserAgent,
		Fields:    fields,
	})
}
