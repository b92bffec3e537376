package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fairhouse/engine"
)

// Server wires the outcome engine and verifier into the HTTP surface.
type Server struct {
	engine    *engine.Engine
	verifier  *engine.Verifier
	validator *validator.Validate
}

func NewServer(eng *engine.Engine, verifier *engine.Verifier) *Server {
	return &Server{
		engine:    eng,
		verifier:  verifier,
		validator: validator.New(),
	}
}

// Routes builds the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/seed", func(r chi.Router) {
			r.Get("/active", s.handleActiveSeed)
			r.Post("/rotate", s.handleRotateSeed)
			r.Get("/history", s.handleSeedHistory)
		})

		r.Route("/client-seed", func(r chi.Router) {
			r.Get("/{userID}", s.handleGetClientSeed)
			r.Post("/", s.handleSetClientSeed)
		})

		r.Post("/play", s.handlePlay)
		r.Post("/verify", s.handleVerify)

		r.Route("/rounds", func(r chi.Router) {
			r.Get("/recent", s.handleRecentRounds)
			r.Get("/{roundID}", s.handleGetRound)
			r.Get("/{roundID}/verify", s.handleVerifyRound)
		})
	})

	return r
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg, status))
}
