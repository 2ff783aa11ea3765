package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/config"
	"github.com/StellaShiina/julebord/content"
	"github.com/StellaShiina/julebord/events"
	"github.com/StellaShiina/julebord/handlers"
	"github.com/StellaShiina/julebord/middleware"
	"github.com/StellaShiina/julebord/netutil"
	"github.com/StellaShiina/julebord/store"
)

var rootCmd = &cobra.Command{
	Use:           "julebord",
	Short:         "Passcode-gated programme page for the Christmas party",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gate and the programme",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Prioritize /etc/julebord/.env, then fall back to the working directory
		envPath, loaded := config.LoadDotEnv()

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		if loaded {
			logger.Info("loaded .env", "path", envPath)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, closeStore, err := store.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		logger.Info("flag store ready", "backend", cfg.StoreBackend, "signed", cfg.FlagSigningKey != "")

		publisher, err := events.Open(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer publisher.Close()
		if cfg.NATSURL != "" {
			logger.Info("access events enabled", "nats_url", cfg.NATSURL)
		}

		program, err := content.Load(cfg.ProgramFile)
		if err != nil {
			return err
		}
		holder := content.NewHolder(program)
		if err := holder.Watch(ctx, cfg.ProgramFile, logger); err != nil {
			logger.Warn("program hot reload disabled", "error", err)
		}

		gin.SetMode(gin.ReleaseMode)
		h := &handlers.Handler{
			Secret:     access.NewSecret(cfg.AccessCode),
			Program:    holder,
			ShakeDelay: cfg.ShakeDuration(),
			ErrorDelay: cfg.ErrorDuration(),
			Logger:     logger,
		}
		router, err := handlers.NewRouter(h, handlers.RouterOptions{
			Backend: backend,
			Access: middleware.AccessOptions{
				FlagName: cfg.FlagName,
				Notifier: publisher,
				Logger:   logger,
			},
		})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		if url, err := netutil.ShareURL(cfg.UIAddr, cfg.UIPort); err == nil {
			logger.Info("serving", "addr", cfg.Addr(), "share_url", url)
		} else {
			logger.Info("serving", "addr", cfg.Addr())
		}

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check CODE",
	Short: "Report whether CODE opens the gate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		secret := access.NewSecret(cfg.AccessCode)
		if !secret.Matches(args[0]) {
			return fmt.Errorf("%q does not open the gate", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
