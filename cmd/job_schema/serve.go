package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-schema-collector/internal/config"
	"github.com/jonathan/job-schema-collector/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and JSON API",
	Long:  `Start an HTTP server with the password-gated collector UI and the matching JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: config, $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	gateCfg, err := config.NewGateConfig()
	if err != nil {
		return fmt.Errorf("invalid access password configuration: %w", err)
	}
	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return fmt.Errorf("invalid session configuration: %w", err)
	}
	if sessionCfg.Ephemeral {
		log.Warn().Msg("SESSION_SECRET is not set; sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, closeLLM, err := newExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		MaxUploadMB: cfg.MaxUploadMB,
		Gate:        gateCfg,
		Session:     sessionCfg,
		Acquirer:    newAcquirer(cfg),
		Extractor:   extractor,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
