package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dealguard-ai/dealguard/internal/analyzer"
	"github.com/dealguard-ai/dealguard/internal/config"
	"github.com/dealguard-ai/dealguard/internal/highlight"
	"github.com/dealguard-ai/dealguard/internal/ner"
	"github.com/dealguard-ai/dealguard/internal/recorder"
	"github.com/dealguard-ai/dealguard/internal/redact"
)

var analyzeFormat string

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format: text or json")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a deal message from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var data []byte
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	opts := []analyzer.Option{}
	if cfg.NER.Enabled {
		model, err := ner.LoadModel(cfg.NER.BundleDir, cfg.NER.SeqLen)
		if err != nil {
			redact.Logf("ner disabled: %v", err)
		} else {
			defer model.Close()
			opts = append(opts, analyzer.WithNER(model))
		}
	}

	report, err := analyzer.New(opts...).Analyze(context.Background(), string(data))
	if err != nil {
		return err
	}

	if cfg.Recorder.SQLitePath != "" {
		rec, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			redact.Logf("recorder disabled: %v", err)
		} else {
			defer rec.Close()
			labels := make([]string, 0, len(report.Risk.Reasons))
			for _, r := range report.Risk.Reasons {
				labels = append(labels, r.Label)
			}
			if err := rec.RecordAnalysis(&recorder.Entry{
				Score:     report.Risk.Score,
				Tier:      string(report.Risk.Tier),
				Labels:    labels,
				Payment:   report.Snapshot.Payment,
				LinkCount: len(report.Snapshot.Links),
				Source:    "cli",
			}); err != nil {
				redact.Logf("record analysis: %v", err)
			}
		}
	}

	switch analyzeFormat {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "text":
		fmt.Print(renderText(string(data), report))
	default:
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}
	return nil
}

func renderText(text string, report analyzer.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Risk: %d/100 (%s)\n\n", report.Risk.Score, report.Risk.Tier)

	if len(report.Risk.Reasons) > 0 {
		b.WriteString("Signals:\n")
		for _, r := range report.Risk.Reasons {
			fmt.Fprintf(&b, "  +%-3d %s", r.Points, r.Label)
			if len(r.TriggerPhrases) > 0 {
				fmt.Fprintf(&b, "  (%s)", strings.Join(r.TriggerPhrases, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.Risk.Plan) > 0 {
		b.WriteString("What to do:\n")
		for i, step := range report.Risk.Plan {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	b.WriteString("Deal snapshot:\n")
	if report.Snapshot.Parties != "" {
		fmt.Fprintf(&b, "  Parties:  %s\n", report.Snapshot.Parties)
	}
	if report.Snapshot.Amount != "" {
		fmt.Fprintf(&b, "  Amount:   %s\n", report.Snapshot.Amount)
	}
	if report.Snapshot.Deadline != "" {
		fmt.Fprintf(&b, "  Deadline: %s\n", report.Snapshot.Deadline)
	}
	fmt.Fprintf(&b, "  Payment:  %s\n", report.Snapshot.Payment)
	for _, link := range report.Snapshot.Links {
		fmt.Fprintf(&b, "  Link:     %s\n", link)
	}
	b.WriteString("\n")

	if len(report.Highlights) > 0 {
		b.WriteString("Message with flagged phrases:\n")
		b.WriteString(highlight.Annotate(text, report.Highlights, ">>", "<<"))
		if !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Suggested reply:\n")
	b.WriteString(report.Reply)
	if !strings.HasSuffix(report.Reply, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
