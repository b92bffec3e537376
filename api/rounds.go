package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fairhouse/config"
	"fairhouse/db"
)

// HandleRecentRounds handles GET /api/rounds/recent?limit=N
func (s *Server) handleRecentRounds(w http.ResponseWriter, r *http.Request) {
	limit := config.RecentRoundsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	rounds, err := db.RecentRounds(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to load recent rounds: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"rounds": rounds,
		"count":  len(rounds),
	})
}

// HandleGetRound handles GET /api/rounds/{roundID}
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")

	round, err := s.engine.Round(r.Context(), roundID)
	if err != nil {
		status, msg := errStatus(err)
		writeError(w, r, status, msg)
		return
	}

	render.JSON(w, r, round)
}
