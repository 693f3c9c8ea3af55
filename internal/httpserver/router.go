package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"salescope/internal/auth"
	"salescope/internal/dataset"
	"salescope/internal/obs"
	"salescope/internal/report"
)

type RouterConfig struct {
	MaxUploadBytes int64
	LoginRate      int
	LoginBurst     int
}

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	datasets *dataset.Store,
	cfg RouterConfig,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", obs.Handler())

	// Auth
	login := &auth.LoginHandler{Auth: authSvc, Logger: logger}
	mux.Handle("/api/v1/auth/login", rateLimit(login, cfg.LoginRate, cfg.LoginBurst))
	mux.Handle("/api/v1/auth/logout", &auth.LogoutHandler{Sessions: authSvc.Sessions(), Logger: logger})

	secured := auth.SessionMiddleware(authSvc.Sessions())
	mux.Handle("/api/v1/auth/session", secured(&auth.SessionHandler{Logger: logger}))

	// Datasets
	uploadHandler := &dataset.UploadHandler{
		Store:    datasets,
		Logger:   logger,
		MaxBytes: cfg.MaxUploadBytes,
	}
	mux.Handle("/api/v1/datasets", secured(uploadHandler))
	mux.Handle("/api/v1/datasets/", secured(&dataset.DetailHandler{Store: datasets, Logger: logger}))

	// Reports
	mux.Handle("/api/v1/reports/", secured(&report.Handler{Datasets: datasets, Logger: logger}))

	return withCORS(withLogging(logger, obs.Instrument(mux)))
}
