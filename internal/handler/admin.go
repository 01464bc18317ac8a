package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skyreport-dev/skyreport/internal/api"
	"github.com/skyreport-dev/skyreport/internal/domain"
	"github.com/skyreport-dev/skyreport/internal/utils"
)

const defaultAuditLimit = 100

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	resp := api.AccountListResponse{Accounts: make([]api.AccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, accountResponse(a))
	}
	writeJSON(w, resp)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body api.CreateAccountRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	account, err := h.accounts.Create(r.Context(), body.Email, body.Password, body.FirstName, body.LastName, body.Admin)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, accountResponse(account))
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "account"), "account id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.UpdateAccountRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.accounts.Update(r.Context(), domain.AccountId(id), body.FirstName, body.LastName, body.Admin); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "account"), "account id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.accounts.Delete(r.Context(), domain.AccountId(id)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.SettingsResponse{Settings: settings})
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body api.UpdateSettingsRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.settings.Update(r.Context(), domain.Settings{
		Organization: body.Organization,
		ContactEmail: body.ContactEmail,
		WelcomeText:  body.WelcomeText,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := parseIntParam(raw, "limit")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.auditLog.Recent(r.Context(), limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.AuditLogResponse{Entries: entries})
}

func accountResponse(a domain.Account) api.AccountResponse {
	return api.AccountResponse{
		Id:        a.Id,
		Email:     string(a.Email),
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Admin:     a.Admin,
	}
}
