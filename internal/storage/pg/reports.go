package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
)

const reportColumns = "id, reference, type, title, narrative, location, occurred_at, author_id, status, created_at, updated_at"

func scanReport(row interface{ Scan(...interface{}) error }) (domain.Report, error) {
	var r domain.Report
	err := row.Scan(&r.Id, &r.Reference, &r.Type, &r.Title, &r.Narrative, &r.Location,
		&r.OccurredAt, &r.AuthorId, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Storage) SaveReport(ctx context.Context, report domain.Report) (domain.Report, error) {
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO reports(reference, type, title, narrative, location, occurred_at, author_id, status)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+reportColumns,
		report.Reference, report.Type, report.Title, report.Narrative, report.Location,
		report.OccurredAt, report.AuthorId, report.Status)
	saved, err := scanReport(row)
	if err != nil {
		return domain.Report{}, fmt.Errorf("failed to insert report: %w", err)
	}
	return saved, nil
}

func (s *Storage) Report(ctx context.Context, id domain.ReportId) (domain.Report, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = $1", id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Report{}, &internal_errors.ErrorWithStatusCode{Message: "Report not found", StatusCode: http.StatusNotFound}
		}
		return domain.Report{}, fmt.Errorf("failed to query report: %w", err)
	}
	return report, nil
}

func (s *Storage) Reports(ctx context.Context, authorId domain.AccountId, page, perPage int) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+reportColumns+` FROM reports
        WHERE author_id = $1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		authorId, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	return collectReports(rows)
}

func (s *Storage) AllReports(ctx context.Context, page, perPage int) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+reportColumns+` FROM reports
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	return collectReports(rows)
}

func collectReports(rows *sql.Rows) ([]domain.Report, error) {
	defer rows.Close()
	var reports []domain.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Storage) UpdateReportStatus(ctx context.Context, id domain.ReportId, status string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE reports SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return requireRowsAffected(result, "Report not found for status update")
}

func (s *Storage) DeleteReport(ctx context.Context, id domain.ReportId) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return requireRowsAffected(result, "Report not found for deletion")
}

func (s *Storage) AdminIds(ctx context.Context) ([]domain.AccountId, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM accounts WHERE is_admin")
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var ids []domain.AccountId
	for rows.Next() {
		var id domain.AccountId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
