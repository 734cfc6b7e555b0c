package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.NER.SeqLen != 256 {
		t.Errorf("seq_len = %d", cfg.NER.SeqLen)
	}
	if cfg.NER.Enabled {
		t.Error("ner enabled by default")
	}
	if cfg.Telemetry.Protocol != "grpc" || cfg.Telemetry.Service != "dealguard" {
		t.Errorf("telemetry defaults = %+v", cfg.Telemetry)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dealguard.yaml")
	body := "server:\n  addr: \":9090\"\nner:\n  enabled: true\n  bundle_dir: /opt/ner\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if !cfg.NER.Enabled || cfg.NER.BundleDir != "/opt/ner" {
		t.Errorf("ner = %+v", cfg.NER)
	}
	if cfg.NER.SeqLen != 256 {
		t.Errorf("seq_len default not applied: %d", cfg.NER.SeqLen)
	}
	if cfg.Inbox.Dir != "inbox" || cfg.Inbox.OutDir != "outbox" {
		t.Errorf("inbox defaults = %+v", cfg.Inbox)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
