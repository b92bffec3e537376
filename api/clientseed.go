package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// SetClientSeedRequest represents a request to set a user's client seed
type SetClientSeedRequest struct {
	UserID string `json:"userId" validate:"required"`
	Seed   string `json:"seed" validate:"required,max=64"`
}

// HandleGetClientSeed handles GET /api/client-seed/{userID}
func (s *Server) handleGetClientSeed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "userID is required")
		return
	}

	seed, err := s.engine.ClientSeeds.ClientSeed(r.Context(), userID)
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Failed to load client seed for %s: %v", userID, err)
		writeError(w, r, status, msg)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"userId":     userID,
		"clientSeed": seed,
	})
}

// HandleSetClientSeed handles POST /api/client-seed
func (s *Server) handleSetClientSeed(w http.ResponseWriter, r *http.Request) {
	var req SetClientSeedRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ValidationError(validateErrs))
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return
	}

	if err := s.engine.ClientSeeds.SetClientSeed(r.Context(), req.UserID, req.Seed); err != nil {
		status, msg := errStatus(err)
		writeError(w, r, status, msg)
		return
	}

	render.JSON(w, r, OK())
}
