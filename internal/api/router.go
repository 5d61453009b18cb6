package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/St1cky1/todo-service/internal/api/handlers"
	"github.com/St1cky1/todo-service/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxBodyBytes = 1 << 20

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	// Store проверяется в /healthz
	Store repository.HealthChecker
}

type handlerFunc func(ctx context.Context, req handlers.Request) handlers.Response

func NewRouter(taskHandler *handlers.TaskHandler, authHandler *handlers.AuthHandler, cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS", "PATCH", "DELETE", "POST", "PUT"},
		AllowedHeaders: []string{
			"X-CSRF-Token", "X-Requested-With", "Accept", "Accept-Version", "Content-Length",
			"Content-MD5", "Content-Type", "Date", "X-Api-Version", "Authorization",
		},
		AllowCredentials: true,
		// OPTIONS отвечает сам обработчик
		OptionsPassthrough: true,
	}))

	r.Get("/healthz", healthHandler(cfg.Store))

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.HandleFunc("/", adapt(taskHandler.Collection))
			r.HandleFunc("/toggle", adapt(taskHandler.Toggle))
			r.HandleFunc("/{id}", adapt(taskHandler.Item))
		})
		r.Route("/auth", func(r chi.Router) {
			r.HandleFunc("/register", adapt(authHandler.Register))
			r.HandleFunc("/login", adapt(authHandler.Login))
			r.HandleFunc("/verify", adapt(authHandler.Verify))
		})
	})

	return r
}

// adapt переводит net/http запрос в handlers.Request и пишет ответ как JSON
func adapt(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, handlers.ErrorResponse{Error: "Request body too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, handlers.ErrorResponse{Error: "Failed to read request body"})
			return
		}

		query := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		resp := h(r.Context(), handlers.Request{
			Method:        r.Method,
			Authorization: r.Header.Get("Authorization"),
			ID:            chi.URLParam(r, "id"),
			Query:         query,
			Body:          body,
		})

		if resp.Body == nil {
			w.WriteHeader(resp.Status)
			return
		}
		writeJSON(w, resp.Status, resp.Body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func healthHandler(store repository.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			if err := store.HealthCheck(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
