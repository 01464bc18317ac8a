package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
	"github.com/skyreport-dev/skyreport/internal/logger"
)

// to mock service in tests
type ReportService interface {
	Create(ctx context.Context, report domain.Report) (domain.Report, error)
	Get(ctx context.Context, id domain.ReportId, requester domain.Account) (domain.Report, error)
	List(ctx context.Context, requester domain.Account, page int) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id domain.ReportId, status string) error
	Delete(ctx context.Context, id domain.ReportId) error
}

type ReportStorage interface {
	SaveReport(ctx context.Context, report domain.Report) (domain.Report, error)
	Report(ctx context.Context, id domain.ReportId) (domain.Report, error)
	Reports(ctx context.Context, authorId domain.AccountId, page, perPage int) ([]domain.Report, error)
	AllReports(ctx context.Context, page, perPage int) ([]domain.Report, error)
	UpdateReportStatus(ctx context.Context, id domain.ReportId, status string) error
	DeleteReport(ctx context.Context, id domain.ReportId) error
	AdminIds(ctx context.Context) ([]domain.AccountId, error)
	SaveNotification(ctx context.Context, n domain.Notification) error
}

type Report struct {
	storage ReportStorage
	policy  *bluemonday.Policy
	perPage int
}

func NewReport(storage ReportStorage, perPage int) *Report {
	return &Report{
		storage: storage,
		policy:  bluemonday.StrictPolicy(),
		perPage: perPage,
	}
}

func (s *Report) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	if !domain.ValidReportType(report.Type) {
		return domain.Report{}, internal_errors.BadRequest("Unknown report type")
	}

	report.Title = strings.TrimSpace(s.policy.Sanitize(report.Title))
	report.Narrative = strings.TrimSpace(s.policy.Sanitize(report.Narrative))
	report.Location = strings.TrimSpace(s.policy.Sanitize(report.Location))
	if report.Title == "" || report.Narrative == "" {
		return domain.Report{}, internal_errors.BadRequest("Title and narrative are required")
	}

	report.Reference = uuid.NewString()
	report.Status = domain.StatusSubmitted

	saved, err := s.storage.SaveReport(ctx, report)
	if err != nil {
		return domain.Report{}, err
	}

	s.notifyAdmins(ctx, saved)
	return saved, nil
}

// notifyAdmins fans a new-report notification out to every administrator.
// Best-effort: the report is already saved, so failures only get logged.
func (s *Report) notifyAdmins(ctx context.Context, report domain.Report) {
	adminIds, err := s.storage.AdminIds(ctx)
	if err != nil {
		logger.Log.Warn("failed to list admins for report notification", "report_id", report.Id, "error", err)
		return
	}
	body := fmt.Sprintf("New %s report submitted: %s", report.Type, report.Title)
	for _, id := range adminIds {
		if err := s.storage.SaveNotification(ctx, domain.Notification{AccountId: id, Body: body}); err != nil {
			logger.Log.Warn("failed to save report notification", "account_id", id, "error", err)
		}
	}
}

func (s *Report) Get(ctx context.Context, id domain.ReportId, requester domain.Account) (domain.Report, error) {
	report, err := s.storage.Report(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	if !requester.Admin && report.AuthorId != requester.Id {
		// same response as a missing report, no existence leak
		return domain.Report{}, internal_errors.NotFound("Report not found")
	}
	return report, nil
}

func (s *Report) List(ctx context.Context, requester domain.Account, page int) ([]domain.Report, error) {
	page = max(1, page)
	if requester.Admin {
		return s.storage.AllReports(ctx, page, s.perPage)
	}
	return s.storage.Reports(ctx, requester.Id, page, s.perPage)
}

func (s *Report) UpdateStatus(ctx context.Context, id domain.ReportId, status string) error {
	if !domain.ValidReportStatus(status) {
		return internal_errors.BadRequest("Unknown report status")
	}
	return s.storage.UpdateReportStatus(ctx, id, status)
}

func (s *Report) Delete(ctx context.Context, id domain.ReportId) error {
	return s.storage.DeleteReport(ctx, id)
}
