package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

func (s *Server) handleListHours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.HoursFilter{
		Organization: q.Get("organization"),
		DateFrom:     q.Get("from"),
		DateTo:       q.Get("to"),
		Status:       types.HoursStatus(q.Get("status")),
	}

	entries, err := s.hoursService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleLogHours(w http.ResponseWriter, r *http.Request) {
	var entry models.HoursEntry
	if err := parseJSONBody(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}

	created, err := s.hoursService.LogHours(r.Context(), &entry)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleVerifyHours(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var verification models.HoursVerification
	if err := parseJSONBody(r, &verification); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}

	entry, err := s.hoursService.Verify(r.Context(), id, &verification)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteHours(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.hoursService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleHoursSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	summary, err := s.hoursService.Summary(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHoursReport(w http.ResponseWriter, r *http.Request) {
	period := types.ReportPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = types.PeriodMonth
	}

	report, err := s.hoursService.Report(r.Context(), period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleHoursCertificate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := types.ReportPeriod(q.Get("period"))
	if period == "" {
		period = types.PeriodAll
	}

	// The certificate carries the profile name unless one is given.
	name := q.Get("name")
	if name == "" {
		profile, err := s.store.GetProfile(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		name = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	}

	cert, err := s.hoursService.CertificateFor(r.Context(), period, name, q.Get("authority"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cert)
}

func (s *Server) handleHoursExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	csv, err := s.hoursService.ExportCSV(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="volunteer_hours.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}
