package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fairhouse/engine"
	"fairhouse/game"
)

// VerifyRequest represents a manual verification of a revealed round
type VerifyRequest struct {
	ServerSeed string      `json:"serverSeed" validate:"required"`
	SeedHash   string      `json:"seedHash" validate:"required"`
	ClientSeed string      `json:"clientSeed" validate:"required,max=64"`
	Nonce      uint64      `json:"nonce"`
	Game       string      `json:"game" validate:"required,oneof=coinflip crash crate"`
	CrateID    string      `json:"crateId" validate:"required_if=Game crate"`
	RoundID    string      `json:"roundId"`
	Claimed    game.Result `json:"claimed"`
}

// HandleVerify handles POST /api/verify
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
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

	report, err := s.verifier.Verify(r.Context(), engine.VerifyRequest{
		RevealedSeed: req.ServerSeed,
		SeedHash:     req.SeedHash,
		ClientSeed:   req.ClientSeed,
		Nonce:        req.Nonce,
		Game:         game.Type(req.Game),
		CrateID:      req.CrateID,
		RoundID:      req.RoundID,
		Claimed:      req.Claimed,
	})
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Verification failed: %v", err)
		writeError(w, r, status, msg)
		return
	}

	render.JSON(w, r, report)
}

// HandleVerifyRound handles GET /api/rounds/{roundID}/verify
func (s *Server) handleVerifyRound(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")

	report, err := s.verifier.VerifyRound(r.Context(), roundID)
	if err != nil {
		status, msg := errStatus(err)
		log.Printf("❌ Round verification failed (%s): %v", roundID, err)
		writeError(w, r, status, msg)
		return
	}

	render.JSON(w, r, report)
}
