package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fairhouse/db"
	"fairhouse/engine"
	"fairhouse/game"
)

// PlayRequest represents an outcome request for one round
type PlayRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Game    string `json:"game" validate:"required,oneof=coinflip crash crate"`
	CrateID string `json:"crateId" validate:"required_if=Game crate"`
}

// HandlePlay handles POST /api/play
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
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

	ctx := r.Context()
	outcome, err := s.engine.Play(ctx, engine.PlayRequest{
		UserID:  req.UserID,
		Game:    game.Type(req.Game),
		CrateID: req.CrateID,
	})
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Play failed (user %s, game %s): %v", req.UserID, req.Game, err)
		writeError(w, r, status, msg)
		return
	}

	if round, rerr := s.engine.Round(ctx, outcome.RoundID); rerr == nil {
		if perr := db.PushRecentRound(ctx, round); perr != nil {
			log.Printf("⚠️  Failed to push recent round: %v", perr)
		}
	}

	render.JSON(w, r, outcome)
}
