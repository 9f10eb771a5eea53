package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"cookcart/internal/api"
	"cookcart/internal/converter"
	"cookcart/internal/platform/gemini"
	"cookcart/internal/platform/localllm"
	"cookcart/internal/shoppinglist"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipe and shopping list API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :9080)")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	var lists api.ShoppingListStore
	if a.cfg.DatabaseURL != "" {
		store, err := shoppinglist.NewPostgresStore(ctx, a.cfg.DatabaseURL, time.Minute)
		if err != nil {
			return fmt.Errorf("error creating postgres store: %w", err)
		}
		defer store.Close()
		lists = store
	} else {
		a.log.Info("no database configured, saving shopping lists is disabled")
	}

	conv, closeConv, err := newConverter(ctx, a)
	if err != nil {
		return err
	}
	defer closeConv()

	handler := api.NewHandler(a.catalog(), lists, conv, a.units, a.cfg, a.log)
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.cfg.Addr).WithField("base_path", a.cfg.BasePath).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newConverter prefers Gemini when an API key is set, then a local LLM when
// its URL is set. It returns a nil converter when neither is configured.
func newConverter(ctx context.Context, a *app) (converter.Converter, func(), error) {
	switch {
	case a.cfg.GeminiAPIKey != "":
		client, err := gemini.NewClient(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating gemini client: %w", err)
		}
		return client, func() { _ = client.Close() }, nil
	case a.cfg.LocalLLMURL != "":
		return localllm.NewClient(a.cfg.LocalLLMURL, a.cfg.LocalLLMModel), func() {}, nil
	default:
		a.log.Info("no model configured, recipe conversion is disabled")
		return nil, func() {}, nil
	}
}
