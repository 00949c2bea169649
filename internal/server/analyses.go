package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMatchAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analysisSvc.ForMatch(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleRequestAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.analysisSvc.Request(r.Context(), chi.URLParam(r, "matchID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, nil)
}
