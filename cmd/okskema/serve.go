package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/reoring/okskema/i18n"
	"github.com/reoring/okskema/internal/catalog"
	"github.com/reoring/okskema/middleware"
	"golang.org/x/sync/errgroup"
)

func serveCmd(ctx context.Context, cfg config, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.SetOutput(stderr)
	addr := flags.String("addr", cfg.Addr, "listen address")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	logger := newLogger(stderr, cfg.LogLevel)
	i18n.SetLanguage(cfg.Lang)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.InfoContext(ctx, "listening", slog.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := eg.Wait(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		return exitUsage
	}
	return exitOK
}

// newMux exposes one validation endpoint per catalog schema:
//
//	POST /v1/validate/{schema}  body validated, 200 with the output value or 422 with failures
//	GET  /v1/schemas            registered names
//	GET  /healthz
func newMux(cfg config, logger *slog.Logger) *http.ServeMux {
	opt := middleware.DefaultOptions()
	opt.MaxBodyBytes = cfg.MaxBodyBytes
	opt.AllowYAML = true
	opt.Logger = logger

	mux := http.NewServeMux()
	for _, name := range catalog.Names() {
		e, _ := catalog.Lookup(name)
		mux.Handle("POST /v1/validate/"+name, middleware.Validate(e.Schema, opt)(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				v, _ := middleware.ValueFromContext[any](r.Context())
				_ = middleware.WriteJSON(w, http.StatusOK, map[string]any{"valid": true, "value": v})
			})))
	}
	mux.HandleFunc("POST /v1/validate/{schema}", func(w http.ResponseWriter, r *http.Request) {
		_, err := catalog.Lookup(r.PathValue("schema"))
		_ = middleware.WriteJSON(w, http.StatusNotFound, middleware.ErrorPayload(err))
	})
	mux.HandleFunc("GET /v1/schemas", func(w http.ResponseWriter, r *http.Request) {
		_ = middleware.WriteJSON(w, http.StatusOK, map[string]any{"schemas": catalog.Names()})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = middleware.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	return mux
}
