package api

import (
	"net/http"
)

// handleExport bundles everything the session user owns into one JSON
// document. Sections are read independently, so the result can be torn by
// concurrent writes; failures are reported inline per section.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.exportService.Export(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="volunteer_hub_export.json"`)
	respondJSON(w, http.StatusOK, export)
}
