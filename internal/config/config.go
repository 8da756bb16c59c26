// Package config handles Cogmind configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// keyFile is the credential fallback written by `cog init`; the env var
// always wins over it.
const keyFile = "anthropic_key"

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Services
	Qdrant QdrantConfig `json:"qdrant"`
	Ollama OllamaConfig `json:"ollama"`
	Claude ClaudeConfig `json:"claude"`

	// Cognitive loop cadences and thresholds
	Mind MindConfig `json:"mind"`

	// Features
	Features FeatureConfig `json:"features"`
}

// ServerConfig for HTTP server
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// QdrantConfig for vector database
type QdrantConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// OllamaConfig for local LLM
type OllamaConfig struct {
	URL        string `json:"url"`
	Model      string `json:"model"`
	EmbedModel string `json:"embed_model"`
}

// ClaudeConfig for Claude API
type ClaudeConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// MindConfig tunes the periodic loops. Intervals are expressed in
// their natural units; zero means use the default.
type MindConfig struct {
	CoreTickMs               int `json:"core_tick_ms"`
	ThoughtIntervalSec       int `json:"thought_interval_sec"`
	GoalIntervalSec          int `json:"goal_interval_sec"`
	ReflectionIntervalSec    int `json:"reflection_interval_sec"`
	ConsolidationIntervalSec int `json:"consolidation_interval_sec"`
	HealthIntervalSec        int `json:"health_interval_sec"`

	FailureThreshold   int `json:"failure_threshold"`
	MaxConcurrentTasks int `json:"max_concurrent_tasks"`
}

// FeatureConfig for feature flags
type FeatureConfig struct {
	PreferLocal   bool `json:"prefer_local"`   // route easy LLM work to Ollama
	EnableVectors bool `json:"enable_vectors"` // episodic memory in Qdrant
	DebugMode     bool `json:"debug_mode"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".cogmind"),
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Qdrant: QdrantConfig{
			Host: "localhost",
			Port: 6334,
		},
		Ollama: OllamaConfig{
			URL:        "http://localhost:11434",
			Model:      "llama3.2",
			EmbedModel: "nomic-embed-text",
		},
		Claude: ClaudeConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  "claude-sonnet-4-20250514",
		},
		Mind: MindConfig{
			CoreTickMs:               500,
			ThoughtIntervalSec:       5,
			GoalIntervalSec:          15,
			ReflectionIntervalSec:    60,
			ConsolidationIntervalSec: 180,
			HealthIntervalSec:        30,
			FailureThreshold:         10,
			MaxConcurrentTasks:       3,
		},
		Features: FeatureConfig{
			PreferLocal:   true,
			EnableVectors: true,
			DebugMode:     false,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Env overrides win over the file
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.Claude.APIKey = apiKey
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Ollama.URL = host
	}
	if host := os.Getenv("QDRANT_HOST"); host != "" {
		cfg.Qdrant.Host = host
	}

	if cfg.Claude.APIKey == "" {
		if data, err := os.ReadFile(filepath.Join(cfg.DataDir, keyFile)); err == nil {
			cfg.Claude.APIKey = strings.TrimSpace(string(data))
		}
	}

	return cfg, nil
}

// SaveAPIKey stores the key in the data dir, readable only by the owner.
func (c *Config) SaveAPIKey(key string) error {
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.DataDir, keyFile), []byte(key+"\n"), 0600)
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Don't save API key to file
	safeCfg := *c
	safeCfg.Claude.APIKey = ""

	data, err := json.MarshalIndent(safeCfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DatabasePath returns the SQLite file location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "cogmind.db")
}

func orDefault(val, def int) int {
	if val <= 0 {
		return def
	}
	return val
}

// CoreTick returns the core loop cadence.
func (m MindConfig) CoreTick() time.Duration {
	return time.Duration(orDefault(m.CoreTickMs, 500)) * time.Millisecond
}

// ThoughtInterval returns the spontaneous thought loop cadence.
func (m MindConfig) ThoughtInterval() time.Duration {
	return time.Duration(orDefault(m.ThoughtIntervalSec, 5)) * time.Second
}

// GoalInterval returns the goal pursuit loop cadence.
func (m MindConfig) GoalInterval() time.Duration {
	return time.Duration(orDefault(m.GoalIntervalSec, 15)) * time.Second
}

// ReflectionInterval returns the deep reflection loop cadence.
func (m MindConfig) ReflectionInterval() time.Duration {
	return time.Duration(orDefault(m.ReflectionIntervalSec, 60)) * time.Second
}

// ConsolidationInterval returns the memory consolidation loop cadence.
func (m MindConfig) ConsolidationInterval() time.Duration {
	return time.Duration(orDefault(m.ConsolidationIntervalSec, 180)) * time.Second
}

// HealthInterval returns the health check loop cadence.
func (m MindConfig) HealthInterval() time.Duration {
	return time.Duration(orDefault(m.HealthIntervalSec, 30)) * time.Second
}
