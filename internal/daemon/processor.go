package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dealguard-ai/dealguard/internal/analyzer"
	"github.com/dealguard-ai/dealguard/internal/recorder"
	"github.com/dealguard-ai/dealguard/internal/redact"
)

// maxMessageBytes bounds how much of a message file is analyzed.
const maxMessageBytes = 1 << 20

// Processor turns inbox message files into report files.
type Processor struct {
	analyzer *analyzer.Analyzer
	rec      recorder.Recorder
	outDir   string
}

// NewProcessor creates a processor writing reports to outDir.
func NewProcessor(a *analyzer.Analyzer, rec recorder.Recorder, outDir string) *Processor {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Processor{analyzer: a, rec: rec, outDir: outDir}
}

// Process analyzes one message file and writes <name>.report.json next to
// the configured output directory. Returns the report path.
func (p *Processor) Process(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	data = truncateUTF8(data, maxMessageBytes)

	report, err := p.analyzer.Analyze(ctx, string(data))
	if err != nil {
		if errors.Is(err, analyzer.ErrEmptyInput) {
			return "", fmt.Errorf("message %s: %w", filepath.Base(path), err)
		}
		return "", fmt.Errorf("analyze %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(p.outDir, name+".report.json")

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	labels := make([]string, 0, len(report.Risk.Reasons))
	for _, r := range report.Risk.Reasons {
		labels = append(labels, r.Label)
	}
	if err := p.rec.RecordAnalysis(&recorder.Entry{
		Score:     report.Risk.Score,
		Tier:      string(report.Risk.Tier),
		Labels:    labels,
		Payment:   report.Snapshot.Payment,
		LinkCount: len(report.Snapshot.Links),
		Source:    "inbox",
	}); err != nil {
		redact.Logf("record analysis: %v", err)
	}

	redact.Logf("processed %s: score=%d tier=%s", filepath.Base(path), report.Risk.Score, report.Risk.Tier)
	return outPath, nil
}

// truncateUTF8 caps data at limit bytes, backing off to the previous rune
// boundary so a multi-byte character is never split.
func truncateUTF8(data []byte, limit int) []byte {
	if len(data) <= limit {
		return data
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut]
}

// Handler adapts Process to the watcher callback signature.
func (p *Processor) Handler(ctx context.Context) func(path string) {
	return func(path string) {
		if _, err := p.Process(ctx, path); err != nil {
			redact.Logf("inbox: %v", err)
		}
	}
}
