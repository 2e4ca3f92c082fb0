package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume form server",
	Long:  `Start an HTTP server that serves the resume form, streams the live preview and exports PDFs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	renderer, err := rendering.NewRenderer(nil)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	opts := session.DefaultOptions()
	opts.TTL = cfg.SessionTTLDuration()
	opts.MaxPhotoBytes = cfg.MaxPhotoBytes
	opts.SecureCookie = cfg.SecureCookie
	opts.Presentation = cfg.Presentation()
	opts.Verbose = cfg.Verbose

	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		mirror, err := session.NewRedisMirror(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer mirror.Close() //nolint:errcheck
		opts.Mirror = mirror
		log.Printf("[SERVER] Mirroring sessions to redis at %s", cfg.RedisAddr)
	}

	sessions := session.NewManager(newPipeline(cfg), opts)

	srv := server.New(server.Config{
		Port:      cfg.Port,
		RateLimit: ratelimit.LoadConfig(),
		Verbose:   cfg.Verbose,
	}, sessions, renderer)

	return srv.Start()
}
