// Package server assembles the reference remote API the tracker client
// syncs against.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avolkov/sadhana-tracker/internal/config"
	"github.com/avolkov/sadhana-tracker/internal/notify"
	"github.com/avolkov/sadhana-tracker/internal/repository"
	"github.com/avolkov/sadhana-tracker/internal/server/handlers"
	"github.com/avolkov/sadhana-tracker/internal/server/middleware"
	"github.com/avolkov/sadhana-tracker/internal/service"
)

func NewRouter(authService *service.AuthService, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	refreshTTL := time.Duration(cfg.RefreshTTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(authService, refreshTTL)
	recordsHandler := handlers.NewRecordsHandler(repos.Records)
	habitsHandler := handlers.NewHabitsHandler(repos.Habits)

	// The worker displays whatever it is asked to show; deciding when to
	// notify is the sender's job.
	worker := notify.NewWorker(func(title, body string) {
		log.Printf("NOTIFICATION [%s] %s", title, body)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService))
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService))

			r.Route("/sleep-records", func(r chi.Router) {
				r.Get("/", recordsHandler.List)
				r.Get("/yesterday/check", recordsHandler.CheckYesterday)
				r.Put("/{date}", recordsHandler.PutSleep)
				r.Patch("/{date}/habits/{habitKey}", recordsHandler.PatchHabit)
				r.Delete("/{date}/habits/{habitKey}", recordsHandler.DeleteHabit)
			})

			r.Get("/sleep-stats", recordsHandler.SleepStats)

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", habitsHandler.List)
				r.Post("/", habitsHandler.Add)
				r.Patch("/{key}", habitsHandler.Rename)
				r.Delete("/{key}", habitsHandler.Delete)
			})
		})
	})

	r.Get("/ws/notifications", worker.ServeHTTP)

	return r
}
