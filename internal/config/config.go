package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tutor/internal/chunker"
	"tutor/internal/embedding/tfidf"
	"tutor/internal/index"
)

// DBEnv overrides Store.Path when set.
const DBEnv = "TUTOR_DB"

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxWords     int `yaml:"max_words"`
	OverlapWords int `yaml:"overlap_words"`
}

// RetrieverConfig configures the per-session TF-IDF index and its queries.
// A min_score of 0 selects the default threshold; a negative one disables it.
type RetrieverConfig struct {
	TopK        int     `yaml:"top_k"`
	MinScore    float64 `yaml:"min_score"`
	MaxFeatures int     `yaml:"max_features"`
}

// StoreConfig selects where sessions are persisted.
type StoreConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// LogConfig selects the logger mode ("dev" or "prod").
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// SummarizerConfig configures the frequency summarizer.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Keys missing from the file keep their default values.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Retriever.MinScore == 0 {
		cfg.Retriever.MinScore = index.DefaultMinScore
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/tutor/config.yaml.
// If neither exists, it writes defaults to ~/.config/tutor/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the chunker and retriever cannot work with.
func (c *AppConfig) Validate() error {
	if c.Chunker.MaxWords <= 0 {
		return fmt.Errorf("chunker.max_words must be positive, got %d", c.Chunker.MaxWords)
	}
	if c.Chunker.OverlapWords < 0 || c.Chunker.OverlapWords >= c.Chunker.MaxWords {
		return fmt.Errorf("chunker.overlap_words must be in [0, %d), got %d", c.Chunker.MaxWords, c.Chunker.OverlapWords)
	}
	if c.Retriever.MaxFeatures <= 0 {
		return fmt.Errorf("retriever.max_features must be positive, got %d", c.Retriever.MaxFeatures)
	}
	switch c.Store.Type {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store.type %q", c.Store.Type)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tutor", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Chunker: ChunkerConfig{
			MaxWords:     chunker.DefaultMaxWords,
			OverlapWords: chunker.DefaultOverlapWords,
		},
		Retriever: RetrieverConfig{
			TopK:        index.DefaultTopK,
			MinScore:    index.DefaultMinScore,
			MaxFeatures: tfidf.DefaultMaxFeatures,
		},
		Store:      StoreConfig{Type: "sqlite", Path: "tutor.db"},
		Log:        LogConfig{Mode: "dev"},
		Summarizer: SummarizerConfig{MaxSentences: 5},
	}
}

func applyEnv(cfg *AppConfig) {
	if p := os.Getenv(DBEnv); p != "" {
		cfg.Store.Type = "sqlite"
		cfg.Store.Path = p
	}
}
