package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/handlers"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/middleware"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/websocket"
)

type Handlers struct {
	Session  *handlers.SessionHandler
	Generate *handlers.GenerateHandler
	Quiz     *handlers.QuizHandler
	Models   *handlers.ModelsHandler
	Health   *handlers.HealthHandler
}

// Limiters are the rate limiters mounted on the API. The caller owns them
// and stops them on shutdown.
type Limiters struct {
	Create   *middleware.RateLimiter
	Generate *middleware.RateLimiter
}

func NewLimiters() Limiters {
	// 10 sessions/min per IP, 20 generation jobs/10min per session
	return Limiters{
		Create:   middleware.NewRateLimiter(10, time.Minute),
		Generate: middleware.NewRateLimiter(20, 10*time.Minute),
	}
}

func (l Limiters) Stop() {
	l.Create.Stop()
	l.Generate.Stop()
}

func New(
	sessionAuth *middleware.SessionAuth,
	h Handlers,
	limits Limiters,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", h.Health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/models", h.Models.List)

		r.With(limits.Create.Middleware).Post("/sessions", h.Session.Create)

		// ──── Session Routes (bearer token) ────
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.Session.Get)
				r.Post("/transcript", h.Session.UploadTranscript)

				r.Group(func(r chi.Router) {
					r.Use(limits.Generate.Middleware)
					r.Post("/notes", h.Generate.GenerateNotes)
					r.Post("/quiz", h.Generate.GenerateQuiz)
				})
				r.Get("/notes.txt", h.Generate.ExportNotes)
				r.Get("/quiz.txt", h.Generate.ExportQuiz)

				r.Put("/answers", h.Quiz.RecordAnswer)
				r.Post("/submit", h.Quiz.Submit)
				r.Post("/retake", h.Quiz.Retake)
			})

			r.Get("/jobs/{id}", h.Generate.GetJob)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
