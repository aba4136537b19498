package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkov/sadhana-tracker/internal/config"
	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/repository"
	"github.com/avolkov/sadhana-tracker/internal/repository/sqlite"
	"github.com/avolkov/sadhana-tracker/internal/server"
	"github.com/avolkov/sadhana-tracker/internal/service"
	"github.com/avolkov/sadhana-tracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	st, err := store.Open(cfg.ServerDBPath, cfg.BusinessOffset())
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// Auth tables live outside the versioned record schema.
	if err := st.DB().AutoMigrate(&domain.User{}, &domain.UserSession{}); err != nil {
		log.Fatalf("failed to migrate auth tables: %v", err)
	}

	repos := &repository.Repositories{
		Records: sqlite.NewRecordRepository(st.DB(), cfg.BusinessOffset()),
		Habits:  sqlite.NewHabitRepository(st.DB()),
	}
	authService := service.NewAuthService(st.DB(), cfg)
	router := server.NewRouter(authService, repos, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
