package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run reports and per-record outcomes over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			respond(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Latest run's aggregate report.
		r.Get("/report", func(w http.ResponseWriter, req *http.Request) {
			run, err := env.Store.GetLatestRun(req.Context())
			if err != nil {
				respondError(w, http.StatusInternalServerError, err)
				return
			}
			if run == nil {
				respond(w, http.StatusNotFound, map[string]string{"error": "no runs recorded"})
				return
			}
			respond(w, http.StatusOK, run)
		})

		// Full audit trail for one record in the latest run.
		r.Get("/records/{id}", func(w http.ResponseWriter, req *http.Request) {
			run, err := env.Store.GetLatestRun(req.Context())
			if err != nil {
				respondError(w, http.StatusInternalServerError, err)
				return
			}
			if run == nil {
				respond(w, http.StatusNotFound, map[string]string{"error": "no runs recorded"})
				return
			}
			outcome, err := env.Store.GetOutcome(req.Context(), run.ID, chi.URLParam(req, "id"))
			if err != nil {
				respondError(w, http.StatusInternalServerError, err)
				return
			}
			if outcome == nil {
				respond(w, http.StatusNotFound, map[string]string{"error": "record not found in latest run"})
				return
			}
			respond(w, http.StatusOK, outcome)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	zap.L().Error("request failed", zap.Error(err))
	respond(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
