package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	advisorhandler "github.com/de-tools/iam-atlas/pkg/handlers/advisor"
	iamhandler "github.com/de-tools/iam-atlas/pkg/handlers/iam"
	uploadshandler "github.com/de-tools/iam-atlas/pkg/handlers/uploads"
	"github.com/de-tools/iam-atlas/pkg/models/api"
	iamatlasmiddleware "github.com/de-tools/iam-atlas/pkg/server/middleware"
	"github.com/de-tools/iam-atlas/pkg/services/advisor"
	"github.com/de-tools/iam-atlas/pkg/services/inventory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Inventory inventory.Explorer
	Advisor   advisor.Service
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	LLMDisabled     bool
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	uploadsHandler := uploadshandler.NewHandler(config.Dependencies.Inventory)
	iamHandler := iamhandler.NewHandler(config.Dependencies.Inventory)
	advisorHandler := advisorhandler.NewHandler(
		config.Dependencies.Advisor,
		config.Dependencies.Inventory,
		config.LLMDisabled,
	)

	router := chi.NewRouter()

	router.Use(iamatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", healthCheck)
	router.Get("/api/config", runtimeConfig(config.LLMDisabled))

	router.Route("/api/uploads", func(r chi.Router) {
		r.Post("/", uploadsHandler.Create)
		r.Get("/", uploadsHandler.List)
		r.Get("/current/id", uploadsHandler.GetCurrentID)
		r.Post("/current/{id}", uploadsHandler.SetCurrent)
		r.Get("/{id}", uploadsHandler.GetData)
		r.Delete("/{id}", uploadsHandler.Delete)
	})

	router.Route("/api/iam", func(r chi.Router) {
		r.Get("/users/{id}", iamHandler.GetUser)
		r.Get("/roles/{id}", iamHandler.GetRole)
		r.Get("/policies/{id}", iamHandler.GetPolicy)
		r.Get("/policies/{id}/analysis", iamHandler.GetPolicyAnalysis)
		r.Get("/groups/{id}", iamHandler.GetGroup)
		r.Get("/summary", iamHandler.GetSummary)
	})

	router.Route("/api/llm", func(r chi.Router) {
		r.Post("/recommendations", advisorHandler.GenerateRecommendation)
		r.Get("/recommendations/{uploadID}/{policyID}", advisorHandler.GetRecommendation)
		r.Post("/recommendations/persist", advisorHandler.PersistRecommendation)
		r.Post("/recommendations/regenerate", advisorHandler.RegenerateRecommendation)

		r.Post("/recommended-policy", advisorHandler.GenerateRecommendedPolicy)
		r.Get("/recommended-policy/{uploadID}/{policyID}", advisorHandler.GetRecommendedPolicy)
		r.Post("/recommended-policy/persist", advisorHandler.PersistRecommendedPolicy)
		r.Post("/recommended-policy/regenerate", advisorHandler.RegenerateRecommendedPolicy)

		r.Post("/attack-path", advisorHandler.GenerateAttackPath)
		r.Get("/attack-path/{uploadID}/{policyID}", advisorHandler.GetAttackPath)
		r.Post("/attack-path/persist", advisorHandler.PersistAttackPath)
		r.Post("/attack-path/regenerate", advisorHandler.RegenerateAttackPath)
	})

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy"}`))
}

func runtimeConfig(llmDisabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(api.RuntimeConfig{LLMDisabled: llmDisabled})
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode runtime config")
		}
	}
}
