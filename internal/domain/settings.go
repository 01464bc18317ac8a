package domain

import "time"

// Settings is the single-row branding record shown on every page of the UI.
type Settings struct {
	Organization string
	ContactEmail string
	WelcomeText  string
	UpdatedAt    time.Time
}
