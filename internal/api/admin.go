package api

import "github.com/skyreport-dev/skyreport/internal/domain"

type CreateAccountRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Admin     bool   `json:"admin"`
}

type UpdateAccountRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Admin     *bool   `json:"admin"`
}

// AccountResponse never exposes the stored credential.
type AccountResponse struct {
	Id        domain.AccountId `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Admin     bool             `json:"admin"`
}

type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

type UpdateSettingsRequest struct {
	Organization string `json:"organization" validate:"required,max=200"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	WelcomeText  string `json:"welcome_text" validate:"max=2000"`
}

type SettingsResponse struct {
	domain.Settings
}

type AuditLogResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}
