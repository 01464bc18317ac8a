package domain

import "time"

type ReportId = int64

// Report types mirror the submission forms.
const (
	ReportHazard   = "hazard"
	ReportIncident = "incident"
	ReportFatigue  = "fatigue"
	ReportGround   = "ground"
)

// Report statuses, transitioned by administrators.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusClosed      = "closed"
)

type Report struct {
	Id         ReportId
	Reference  string // external reference number, uuid
	Type       string
	Title      string
	Narrative  string
	Location   string
	OccurredAt time.Time
	AuthorId   AccountId
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ValidReportType(t string) bool {
	switch t {
	case ReportHazard, ReportIncident, ReportFatigue, ReportGround:
		return true
	}
	return false
}

func ValidReportStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusClosed:
		return true
	}
	return false
}
