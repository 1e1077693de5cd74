package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/priyanshu1677/agentic-ai/internal/agent"
	"github.com/priyanshu1677/agentic-ai/internal/logger"
	"github.com/priyanshu1677/agentic-ai/internal/metrics"
)

const sessionHeader = "X-Session-ID"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		reg, err := googleRegistry(ctx, cfg.Google.Services)
		if err != nil {
			return err
		}
		a, store, err := newAgent(reg)
		if err != nil {
			return err
		}
		defer store.Close()

		serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:              serverAddr,
			Handler:           newServeMux(a),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.L.Info("starting server", "address", serverAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.L.Info("shutting down server")
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	},
}

func newServeMux(a *agent.Agent) *http.ServeMux {
	mux := http.NewServeMux()

	// main inference endpoint
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			logger.L.Error("read body error", "error", err)
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		session := r.Header.Get(sessionHeader)
		if session == "" {
			session = uuid.NewString()
		}
		w.Header().Set(sessionHeader, session)
		ctx := agent.WithSession(r.Context(), session)
		input := string(body)
		logger.L.Info("inference request", "session", session, "body", input)

		if resp, ok := a.Quick(ctx, input); ok {
			_, _ = w.Write([]byte(resp))
			return
		}
		response, err := a.Process(ctx, input)
		if err != nil {
			logger.L.Error("process error", "error", err, "body", input)
			http.Error(w, "failed to process request", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(response))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())

	return mux
}
