package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skyreport-dev/skyreport/internal/api"
	"github.com/skyreport-dev/skyreport/internal/domain"
	mw "github.com/skyreport-dev/skyreport/internal/middleware"
	"github.com/skyreport-dev/skyreport/internal/utils"
)

const defaultPage = 1

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateReportRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	report, err := h.reports.Create(r.Context(), domain.Report{
		Type:       body.Type,
		Title:      body.Title,
		Narrative:  body.Narrative,
		Location:   body.Location,
		OccurredAt: body.OccurredAt,
		AuthorId:   user.Id,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, api.CreateReportResponse{Id: report.Id, Reference: report.Reference})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	id, err := parseInt64Param(chi.URLParam(r, "report"), "report id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reports.Get(r.Context(), id, *user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ReportResponse{Report: report})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	page := defaultPage
	if pageQuery := r.URL.Query().Get("page"); pageQuery != "" {
		var err error
		if page, err = parseIntParam(pageQuery, "page"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	reports, err := h.reports.List(r.Context(), *user, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ReportListResponse{Reports: reports, Page: page})
}

func (h *Handler) UpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil || !user.Admin {
		http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
		return
	}

	id, err := parseInt64Param(chi.URLParam(r, "report"), "report id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.UpdateReportStatusRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.reports.UpdateStatus(r.Context(), id, body.Status); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil || !user.Admin {
		http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
		return
	}

	id, err := parseInt64Param(chi.URLParam(r, "report"), "report id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.reports.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
