package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/skyreport-dev/skyreport/internal/api"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
	"github.com/skyreport-dev/skyreport/internal/service"
	"github.com/skyreport-dev/skyreport/internal/utils"
)

// Login is the single entry point of the authentication gateway. Rate
// limiting, validation and auditing all happen inside the auth service so
// that even malformed requests consume rate budget and leave an audit entry.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ip, err := utils.GetIP(r)
	if err != nil {
		ip = r.RemoteAddr
	}
	in := service.LoginInput{IP: ip, UserAgent: r.UserAgent()}

	var creds api.LoginRequest
	if err := utils.Decode(r.Body, &creds); err != nil {
		in.Malformed = true
	} else {
		in.Email = creds.Email
		in.Password = creds.Password
	}

	token, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeLoginError(w, err)
		return
	}

	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    token,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	writeJSON(w, api.LoginResponse{Token: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
}

// writeLoginError maps auth errors onto the documented JSON bodies. The 429
// branch carries both the Retry-After header and the structured retry fields.
func writeLoginError(w http.ResponseWriter, err error) {
	if rl, ok := err.(*internal_errors.RateLimited); ok {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		writeJSONStatus(w, http.StatusTooManyRequests, api.RateLimitedResponse{
			Message:             rl.Message,
			RetryAfter:          rl.RetryAfter,
			RetryAfterFormatted: (time.Duration(rl.RetryAfter) * time.Second).String(),
		})
		return
	}

	status := http.StatusInternalServerError
	if e, ok := err.(*internal_errors.ErrorWithStatusCode); ok {
		status = e.StatusCode
	}
	writeJSONStatus(w, status, api.ErrorResponse{Message: err.Error()})
}
