package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"fairhouse/config"
	"fairhouse/db"
)

// HandleActiveSeed handles GET /api/seed/active
func (s *Server) handleActiveSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Cache first; the commitment only changes on rotation.
	if cached, err := db.CachedActiveSeed(ctx); err == nil && cached != nil {
		render.JSON(w, r, map[string]interface{}{
			"seed":   cached,
			"cached": true,
		})
		return
	}

	info, err := s.engine.Seeds.ActiveInfo(ctx)
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Failed to load active seed: %v", err)
		writeError(w, r, status, msg)
		return
	}

	if err := db.CacheActiveSeed(ctx, info); err != nil {
		log.Printf("⚠️  Failed to cache active seed: %v", err)
	}

	render.JSON(w, r, map[string]interface{}{
		"seed":   info,
		"cached": false,
	})
}

// HandleRotateSeed handles POST /api/seed/rotate
func (s *Server) handleRotateSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	retired, next, err := s.engine.Rotate(ctx)
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Seed rotation failed: %v", err)
		writeError(w, r, status, msg)
		return
	}

	db.InvalidateActiveSeed(ctx)
	if err := db.CacheActiveSeed(ctx, next); err != nil {
		log.Printf("⚠️  Failed to cache rotated seed: %v", err)
	}

	log.Printf("🔄 Server seed rotated: revealed %s, activated %s", retired.ID, next.ID)

	render.JSON(w, r, map[string]interface{}{
		"revealed": retired,
		"active":   next,
	})
}

// HandleSeedHistory handles GET /api/seed/history?limit=N
func (s *Server) handleSeedHistory(w http.ResponseWriter, r *http.Request) {
	limit := config.MaxSeedHistoryLimit
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

	seeds, err := s.engine.Seeds.History(r.Context(), limit)
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Failed to load seed history: %v", err)
		writeError(w, r, status, msg)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"seeds": seeds,
		"count": len(seeds),
	})
}
