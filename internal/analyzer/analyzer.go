package analyzer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dealguard-ai/dealguard/internal/highlight"
	"github.com/dealguard-ai/dealguard/internal/ner"
	"github.com/dealguard-ai/dealguard/internal/redact"
	"github.com/dealguard-ai/dealguard/internal/reply"
	"github.com/dealguard-ai/dealguard/internal/risk"
	"github.com/dealguard-ai/dealguard/internal/snapshot"
	"github.com/dealguard-ai/dealguard/internal/telemetry"
)

// ErrEmptyInput is returned when the message contains no analyzable text.
var ErrEmptyInput = errors.New("analyzer: empty input")

const defaultNERTimeout = 2 * time.Second

// Report is the full outcome of one analysis.
type Report struct {
	Risk       risk.Result       `json:"risk"`
	Snapshot   snapshot.Snapshot `json:"snapshot"`
	Reply      string            `json:"reply"`
	Highlights []highlight.Span  `json:"highlights"`
}

// Analyzer runs the scoring pipeline and, when available, enriches the
// snapshot with recognized parties.
type Analyzer struct {
	ner        ner.Engine
	nerTimeout time.Duration
	tel        *telemetry.Provider
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithNER attaches an entity-recognition engine.
func WithNER(engine ner.Engine) Option {
	return func(a *Analyzer) { a.ner = engine }
}

// WithNERTimeout bounds how long entity recognition may run per message.
func WithNERTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.nerTimeout = d
		}
	}
}

// WithTelemetry attaches a telemetry provider.
func WithTelemetry(tel *telemetry.Provider) Option {
	return func(a *Analyzer) { a.tel = tel }
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{nerTimeout: defaultNERTimeout}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze scores the message, builds the reply and highlights, and enriches
// the snapshot with recognized parties on a best-effort basis. The same text
// always yields the same risk result.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Report, error) {
	if strings.TrimSpace(text) == "" {
		return Report{}, ErrEmptyInput
	}
	start := time.Now()

	result := risk.Score(text)
	snap := snapshot.Build(text)
	if parties := a.recognizeParties(ctx, text); parties != "" {
		snap = snap.WithParties(parties)
	}

	report := Report{
		Risk:       result,
		Snapshot:   snap,
		Reply:      reply.Compose(result.Tier, snap),
		Highlights: highlight.Spans(text, result.TriggerPhrases()),
	}

	if a.tel != nil {
		a.tel.RecordAnalysis(ctx, string(result.Tier), result.Score, float64(time.Since(start).Milliseconds()))
		for _, r := range result.Reasons {
			a.tel.RecordDetectorHit(ctx, r.Label)
		}
	}
	return report, nil
}

// recognizeParties never fails the analysis. Engine errors are logged and
// swallowed, an unavailable engine is silent.
func (a *Analyzer) recognizeParties(ctx context.Context, text string) string {
	if a.ner == nil {
		return ""
	}
	nerCtx, cancel := context.WithTimeout(ctx, a.nerTimeout)
	defer cancel()

	start := time.Now()
	entities, err := a.ner.Recognize(nerCtx, text)
	if a.tel != nil {
		a.tel.RecordNER(ctx, float64(time.Since(start).Milliseconds()), err == nil)
	}
	if err != nil {
		if !errors.Is(err, ner.ErrUnavailable) {
			redact.Logf("analyzer: entity recognition failed: %v", err)
		}
		return ""
	}
	return ner.Parties(ner.Filter(entities))
}
