package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

// Settings reads the single branding row, falling back to defaults when the
// row was never written.
func (s *Storage) Settings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := s.db.QueryRowContext(ctx, `
        SELECT organization, contact_email, welcome_text, updated_at
        FROM settings WHERE id = 1`,
	).Scan(&settings.Organization, &settings.ContactEmail, &settings.WelcomeText, &settings.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Settings{Organization: "Skyreport"}, nil
		}
		return domain.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	return settings, nil
}

func (s *Storage) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO settings(id, organization, contact_email, welcome_text, updated_at)
        VALUES(1, $1, $2, $3, now())
        ON CONFLICT (id) DO UPDATE SET
            organization = $1, contact_email = $2, welcome_text = $3, updated_at = now()`,
		settings.Organization, settings.ContactEmail, settings.WelcomeText)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
