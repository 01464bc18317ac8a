package api

import (
	"time"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

type CreateReportRequest struct {
	Type       string    `json:"type" validate:"required"`
	Title      string    `json:"title" validate:"required,max=200"`
	Narrative  string    `json:"narrative" validate:"required,max=20000"`
	Location   string    `json:"location" validate:"max=200"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ReportResponse struct {
	domain.Report
}

type ReportListResponse struct {
	Reports []domain.Report `json:"reports"`
	Page    int             `json:"page"`
}

type CreateReportResponse struct {
	Id        domain.ReportId `json:"id"`
	Reference string          `json:"reference"`
}
