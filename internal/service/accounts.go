package service

import (
	"context"
	"strings"

	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
)

// to mock service in tests
type AccountService interface {
	Create(ctx context.Context, email, password, firstName, lastName string, admin bool) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, id domain.AccountId, firstName, lastName *string, admin *bool) error
	Delete(ctx context.Context, id domain.AccountId) error
}

type AccountStorage interface {
	Account(ctx context.Context, email domain.Email) (domain.Account, error)
	SaveAccount(ctx context.Context, account domain.Account) (domain.AccountId, error)
	Accounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, id domain.AccountId, firstName, lastName *string, admin *bool) error
	DeleteAccount(ctx context.Context, id domain.AccountId) error
}

// Accounts is the user-management collaborator used by the admin console.
// Only the login core is allowed to mutate credentials after creation.
type Accounts struct {
	storage AccountStorage
}

func NewAccounts(storage AccountStorage) *Accounts {
	return &Accounts{storage: storage}
}

func (s *Accounts) Create(ctx context.Context, email, password, firstName, lastName string, admin bool) (domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.storage.Account(ctx, email); err == nil {
		return domain.Account{}, internal_errors.BadRequest("Email already in use")
	} else if !internal_errors.IsNotFound(err) {
		return domain.Account{}, err
	}

	credential, err := hashCredential(password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		Email:      email,
		Credential: credential,
		FirstName:  firstName,
		LastName:   lastName,
		Admin:      admin,
	}
	id, err := s.storage.SaveAccount(ctx, account)
	if err != nil {
		return domain.Account{}, err
	}
	account.Id = id
	account.Credential = ""
	return account, nil
}

func (s *Accounts) List(ctx context.Context) ([]domain.Account, error) {
	return s.storage.Accounts(ctx)
}

func (s *Accounts) Update(ctx context.Context, id domain.AccountId, firstName, lastName *string, admin *bool) error {
	return s.storage.UpdateAccount(ctx, id, firstName, lastName, admin)
}

func (s *Accounts) Delete(ctx context.Context, id domain.AccountId) error {
	return s.storage.DeleteAccount(ctx, id)
}
