package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dealguard-ai/dealguard/internal/analyzer"
	"github.com/dealguard-ai/dealguard/internal/config"
	"github.com/dealguard-ai/dealguard/internal/daemon"
	"github.com/dealguard-ai/dealguard/internal/ner"
	"github.com/dealguard-ai/dealguard/internal/recorder"
	"github.com/dealguard-ai/dealguard/internal/redact"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and analyze incoming messages",
	Long:  "Watches the configured inbox for new .txt message files and writes a .report.json for each into the output directory.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Inbox.Enabled {
		return fmt.Errorf("inbox watching is disabled; set inbox.enabled: true in %s", configPath)
	}

	if err := os.MkdirAll(cfg.Inbox.Dir, 0o755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.SQLitePath != "" {
		sq, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			return fmt.Errorf("open recorder: %w", err)
		}
		defer sq.Close()
		rec = sq
	}

	opts := []analyzer.Option{}
	if cfg.NER.Enabled {
		bundleDir, seqLen := cfg.NER.BundleDir, cfg.NER.SeqLen
		lazy := ner.NewLazy(func() (ner.Engine, error) {
			return ner.LoadModel(bundleDir, seqLen)
		})
		lazy.WarmUp()
		opts = append(opts, analyzer.WithNER(lazy))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := daemon.NewProcessor(analyzer.New(opts...), rec, cfg.Inbox.OutDir)
	handler := proc.Handler(ctx)

	// Catch up on messages that arrived while the watcher was down.
	if err := daemon.ScanExisting(cfg.Inbox.Dir, handler); err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		redact.Logf("shutting down inbox watcher")
		cancel()
	}()

	redact.Logf("watching %s, reports in %s", cfg.Inbox.Dir, cfg.Inbox.OutDir)
	return daemon.NewInboxWatcher(cfg.Inbox.Dir, handler).Run(ctx)
}
