package service

import (
	"context"
	"testing"
	"time"

	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockReportStorage struct {
	SaveReportFunc         func(ctx context.Context, report domain.Report) (domain.Report, error)
	ReportFunc             func(ctx context.Context, id domain.ReportId) (domain.Report, error)
	ReportsFunc            func(ctx context.Context, authorId domain.AccountId, page, perPage int) ([]domain.Report, error)
	AllReportsFunc         func(ctx context.Context, page, perPage int) ([]domain.Report, error)
	UpdateReportStatusFunc func(ctx context.Context, id domain.ReportId, status string) error
	DeleteReportFunc       func(ctx context.Context, id domain.ReportId) error
	AdminIdsFunc           func(ctx context.Context) ([]domain.AccountId, error)
	SaveNotificationFunc   func(ctx context.Context, n domain.Notification) error
}

func (m *MockReportStorage) SaveReport(ctx context.Context, report domain.Report) (domain.Report, error) {
	if m.SaveReportFunc != nil {
		return m.SaveReportFunc(ctx, report)
	}
	report.Id = 1
	return report, nil
}

func (m *MockReportStorage) Report(ctx context.Context, id domain.ReportId) (domain.Report, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, id)
	}
	return domain.Report{}, internal_errors.NotFound("Report not found")
}

func (m *MockReportStorage) Reports(ctx context.Context, authorId domain.AccountId, page, perPage int) ([]domain.Report, error) {
	if m.ReportsFunc != nil {
		return m.ReportsFunc(ctx, authorId, page, perPage)
	}
	return nil, nil
}

func (m *MockReportStorage) AllReports(ctx context.Context, page, perPage int) ([]domain.Report, error) {
	if m.AllReportsFunc != nil {
		return m.AllReportsFunc(ctx, page, perPage)
	}
	return nil, nil
}

func (m *MockReportStorage) UpdateReportStatus(ctx context.Context, id domain.ReportId, status string) error {
	if m.UpdateReportStatusFunc != nil {
		return m.UpdateReportStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockReportStorage) DeleteReport(ctx context.Context, id domain.ReportId) error {
	if m.DeleteReportFunc != nil {
		return m.DeleteReportFunc(ctx, id)
	}
	return nil
}

func (m *MockReportStorage) AdminIds(ctx context.Context) ([]domain.AccountId, error) {
	if m.AdminIdsFunc != nil {
		return m.AdminIdsFunc(ctx)
	}
	return nil, nil
}

func (m *MockReportStorage) SaveNotification(ctx context.Context, n domain.Notification) error {
	if m.SaveNotificationFunc != nil {
		return m.SaveNotificationFunc(ctx, n)
	}
	return nil
}

func validReport() domain.Report {
	return domain.Report{
		Type:       domain.ReportHazard,
		Title:      "Bird activity",
		Narrative:  "Large flock crossing the approach path",
		Location:   "EHAM",
		OccurredAt: time.Now(),
		AuthorId:   7,
	}
}

// --- Tests ---

func TestReportCreate(t *testing.T) {
	t.Run("Assigns reference and submitted status", func(t *testing.T) {
		var saved domain.Report
		storage := &MockReportStorage{
			SaveReportFunc: func(ctx context.Context, report domain.Report) (domain.Report, error) {
				saved = report
				report.Id = 1
				return report, nil
			},
		}
		service := NewReport(storage, 20)

		report, err := service.Create(context.Background(), validReport())
		require.NoError(t, err)
		assert.NotEmpty(t, report.Reference)
		assert.Equal(t, domain.StatusSubmitted, saved.Status)
	})

	t.Run("Rejects unknown type", func(t *testing.T) {
		service := NewReport(&MockReportStorage{}, 20)

		r := validReport()
		r.Type = "ufo"
		_, err := service.Create(context.Background(), r)
		require.Error(t, err)
		e, ok := err.(*internal_errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, 400, e.StatusCode)
	})

	t.Run("Strips markup from text fields", func(t *testing.T) {
		var saved domain.Report
		storage := &MockReportStorage{
			SaveReportFunc: func(ctx context.Context, report domain.Report) (domain.Report, error) {
				saved = report
				return report, nil
			},
		}
		service := NewReport(storage, 20)

		r := validReport()
		r.Title = "<script>alert(1)</script>Bird activity"
		r.Narrative = "<b>Flock</b> crossing"
		_, err := service.Create(context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, "Bird activity", saved.Title)
		assert.Equal(t, "Flock crossing", saved.Narrative)
	})

	t.Run("Rejects empty title after sanitization", func(t *testing.T) {
		service := NewReport(&MockReportStorage{}, 20)

		r := validReport()
		r.Title = "<script>alert(1)</script>"
		_, err := service.Create(context.Background(), r)
		require.Error(t, err)
	})

	t.Run("Notifies every admin", func(t *testing.T) {
		var notified []domain.AccountId
		storage := &MockReportStorage{
			AdminIdsFunc: func(ctx context.Context) ([]domain.AccountId, error) {
				return []domain.AccountId{1, 2, 3}, nil
			},
			SaveNotificationFunc: func(ctx context.Context, n domain.Notification) error {
				notified = append(notified, n.AccountId)
				return nil
			},
		}
		service := NewReport(storage, 20)

		_, err := service.Create(context.Background(), validReport())
		require.NoError(t, err)
		assert.Equal(t, []domain.AccountId{1, 2, 3}, notified)
	})

	t.Run("Notification failure does not fail creation", func(t *testing.T) {
		storage := &MockReportStorage{
			AdminIdsFunc: func(ctx context.Context) ([]domain.AccountId, error) {
				return nil, assert.AnError
			},
		}
		service := NewReport(storage, 20)

		_, err := service.Create(context.Background(), validReport())
		assert.NoError(t, err)
	})
}

func TestReportGet_AccessControl(t *testing.T) {
	storage := &MockReportStorage{
		ReportFunc: func(ctx context.Context, id domain.ReportId) (domain.Report, error) {
			return domain.Report{Id: id, AuthorId: 7, Title: "Mine"}, nil
		},
	}
	service := NewReport(storage, 20)

	t.Run("Author can read own report", func(t *testing.T) {
		report, err := service.Get(context.Background(), 1, domain.Account{Id: 7})
		require.NoError(t, err)
		assert.Equal(t, "Mine", report.Title)
	})

	t.Run("Admin can read any report", func(t *testing.T) {
		_, err := service.Get(context.Background(), 1, domain.Account{Id: 99, Admin: true})
		assert.NoError(t, err)
	})

	t.Run("Stranger gets not found, not forbidden", func(t *testing.T) {
		_, err := service.Get(context.Background(), 1, domain.Account{Id: 8})
		require.Error(t, err)
		assert.True(t, internal_errors.IsNotFound(err))
	})
}

func TestReportList(t *testing.T) {
	t.Run("Admin sees all reports", func(t *testing.T) {
		allCalled := false
		storage := &MockReportStorage{
			AllReportsFunc: func(ctx context.Context, page, perPage int) ([]domain.Report, error) {
				allCalled = true
				assert.Equal(t, 1, page)
				assert.Equal(t, 20, perPage)
				return nil, nil
			},
		}
		service := NewReport(storage, 20)

		_, err := service.List(context.Background(), domain.Account{Id: 1, Admin: true}, 0)
		require.NoError(t, err)
		assert.True(t, allCalled)
	})

	t.Run("User sees only own reports", func(t *testing.T) {
		storage := &MockReportStorage{
			ReportsFunc: func(ctx context.Context, authorId domain.AccountId, page, perPage int) ([]domain.Report, error) {
				assert.Equal(t, int64(7), authorId)
				assert.Equal(t, 2, page)
				return nil, nil
			},
		}
		service := NewReport(storage, 20)

		_, err := service.List(context.Background(), domain.Account{Id: 7}, 2)
		require.NoError(t, err)
	})
}

func TestReportUpdateStatus(t *testing.T) {
	service := NewReport(&MockReportStorage{}, 20)

	assert.NoError(t, service.UpdateStatus(context.Background(), 1, domain.StatusUnderReview))
	assert.NoError(t, service.UpdateStatus(context.Background(), 1, domain.StatusClosed))

	err := service.UpdateStatus(context.Background(), 1, "wontfix")
	require.Error(t, err)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 400, e.StatusCode)
}
