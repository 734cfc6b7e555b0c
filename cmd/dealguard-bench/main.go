package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/dealguard-ai/dealguard/internal/config"
	"github.com/dealguard-ai/dealguard/internal/ner"
)

func main() {
	cfgPath := flag.String("config", "", "path to config yaml (required)")
	n := flag.Int("n", 200, "number of iterations")
	message := flag.String("message", "John Doe from Acme GmbH offers $2,000, payment via bank transfer to a new account in Berlin.", "message text to recognize")
	flag.Parse()

	if *cfgPath == "" {
		log.Fatalf("config flag is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.NER.Enabled || cfg.NER.BundleDir == "" {
		log.Fatalf("ner must be enabled with a bundle_dir for benchmarking")
	}

	model, err := ner.LoadModel(cfg.NER.BundleDir, cfg.NER.SeqLen)
	if err != nil {
		log.Fatalf("load ner model: %v", err)
	}
	defer model.Close()

	ctx := context.Background()

	// Warmup
	for i := 0; i < 5; i++ {
		if _, err := model.Recognize(ctx, *message); err != nil {
			log.Fatalf("warmup recognize failed: %v", err)
		}
	}

	if *n <= 0 {
		*n = 1
	}

	durations := make([]time.Duration, 0, *n)
	for i := 0; i < *n; i++ {
		start := time.Now()
		if _, err := model.Recognize(ctx, *message); err != nil {
			log.Fatalf("recognize failed: %v", err)
		}
		durations = append(durations, time.Since(start))
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	avg := float64(total.Microseconds()) / 1000.0 / float64(len(durations))
	p50 := float64(durations[len(durations)/2].Microseconds()) / 1000.0
	p95 := float64(durations[int(float64(len(durations))*0.95)].Microseconds()) / 1000.0

	fmt.Printf("bench: n=%d avg_ms=%.2f p50_ms=%.2f p95_ms=%.2f seq_len=%d bundle_dir=%s\n",
		len(durations),
		avg,
		p50,
		p95,
		cfg.NER.SeqLen,
		cfg.NER.BundleDir,
	)
}
