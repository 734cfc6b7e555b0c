package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds dealguard configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	NER       NERConfig       `yaml:"ner"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	Inbox     InboxConfig     `yaml:"inbox"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
}

// NERConfig controls the optional entity-recognition model.
type NERConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BundleDir string `yaml:"bundle_dir"` // dir with model.onnx, label_map.json, tokenizer/
	SeqLen    int    `yaml:"seq_len"`
	WarmUp    bool   `yaml:"warm_up"` // load the model in the background at startup
}

// RecorderConfig selects where analysis results are persisted.
// An empty sqlite_path disables persistence.
type RecorderConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// InboxConfig controls the directory watcher.
type InboxConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	OutDir  string `yaml:"out_dir"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
	Service  string `yaml:"service"`
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.NER.SeqLen <= 0 {
		cfg.NER.SeqLen = 256
	}
	if cfg.Inbox.Dir == "" {
		cfg.Inbox.Dir = "inbox"
	}
	if cfg.Inbox.OutDir == "" {
		cfg.Inbox.OutDir = "outbox"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.Service == "" {
		cfg.Telemetry.Service = "dealguard"
	}
}
