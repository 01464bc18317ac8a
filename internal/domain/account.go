package domain

import "time"

type AccountId = int64
type Email = string

// Account is an identity record. Credential holds the stored secret in one of
// two formats: a bcrypt hash, or a legacy plaintext password that is upgraded
// in place on the owner's next successful login.
type Account struct {
	Id         AccountId
	Email      Email
	Credential string
	FirstName  string
	LastName   string
	Admin      bool
	CreatedAt  time.Time
}

type Credentials struct {
	Email    Email
	Password string
}
