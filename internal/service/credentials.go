package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/skyreport-dev/skyreport/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// credentialCost is the bcrypt cost used for new hashes and legacy upgrades.
const credentialCost = bcrypt.DefaultCost

// Demo account allowance: only honored outside production and only for an
// account whose stored credential is empty.
const (
	demoEmail    = "demo@skyreport.aero"
	demoPassword = "fly-safe-demo"
)

// Verification is the result of checking a supplied password against a
// stored credential.
type Verification struct {
	OK bool
	// ShouldUpgrade signals that the stored credential is legacy plaintext
	// and must be replaced with a bcrypt hash before the login completes.
	ShouldUpgrade bool
	// WeakCompare is set when bcrypt itself failed and the match was decided
	// by direct equality. The audit trail must carry this flag.
	WeakCompare bool
	// Demo is set when the fixed demo account allowance matched.
	Demo bool
}

// hashedCredential reports whether stored is a bcrypt hash. Anything without
// the fixed-format prefix is treated as legacy plaintext.
func hashedCredential(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// verifyCredential checks password against the stored credential of email.
// allowDemo gates the demo-account fallback and must be false in production.
func verifyCredential(email, password, stored string, allowDemo bool) Verification {
	if stored == "" {
		if allowDemo && email == demoEmail && constantTimeEqual(password, demoPassword) {
			return Verification{OK: true, Demo: true}
		}
		return Verification{}
	}

	if hashedCredential(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		switch {
		case err == nil:
			return Verification{OK: true}
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return Verification{}
		default:
			// bcrypt rejected the stored hash itself (truncated, bad cost,
			// unknown version). Falling back to direct equality keeps genuine
			// users out of a lockout; the weakening is flagged, not silent.
			logger.Log.Warn("bcrypt comparison unavailable, falling back to direct equality", "error", err)
			return Verification{OK: constantTimeEqual(password, stored), WeakCompare: true}
		}
	}

	// Legacy plaintext credential.
	if constantTimeEqual(password, stored) {
		return Verification{OK: true, ShouldUpgrade: true}
	}
	return Verification{}
}

func hashCredential(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), credentialCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
