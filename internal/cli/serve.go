package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealguard-ai/dealguard/internal/analyzer"
	"github.com/dealguard-ai/dealguard/internal/config"
	"github.com/dealguard-ai/dealguard/internal/ner"
	"github.com/dealguard-ai/dealguard/internal/recorder"
	"github.com/dealguard-ai/dealguard/internal/redact"
	"github.com/dealguard-ai/dealguard/internal/server"
	"github.com/dealguard-ai/dealguard/internal/telemetry"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx := context.Background()

	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  cfg.Telemetry.Service,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tel.Shutdown(shutdownCtx)
	}()

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.SQLitePath != "" {
		sq, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			return fmt.Errorf("open recorder: %w", err)
		}
		defer sq.Close()
		rec = sq
	}

	opts := []analyzer.Option{analyzer.WithTelemetry(tel)}
	var lazy *ner.Lazy
	if cfg.NER.Enabled {
		bundleDir, seqLen := cfg.NER.BundleDir, cfg.NER.SeqLen
		lazy = ner.NewLazy(func() (ner.Engine, error) {
			return ner.LoadModel(bundleDir, seqLen)
		})
		if cfg.NER.WarmUp {
			lazy.WarmUp()
		}
		opts = append(opts, analyzer.WithNER(lazy))
	}

	a := analyzer.New(opts...)
	srv := server.NewServer(a, rec, tel, lazy, version)

	redact.Logf("dealguard %s starting", version)
	return srv.Start(addr)
}
