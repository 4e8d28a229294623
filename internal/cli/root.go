// Package cli implements the tutor CLI commands.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tutor/internal/chunker"
	"tutor/internal/config"
	"tutor/internal/index"
	"tutor/internal/platform/logger"
	"tutor/internal/service"
	"tutor/internal/session"
	"tutor/internal/session/sqlite"
	"tutor/internal/summarizer"
)

var (
	cfgPath    string
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Study material retrieval and adaptive mastery tracking",
	Long: "Chunk and search study material per session, place learners with a diagnostic, " +
		"and track mastery and level across exercise rounds. Sessions are SQLite-backed.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config (default: ./config.yaml or ~/.config/tutor/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Session database path (default: $"+config.DBEnv+" or store.path)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.Type = "sqlite"
		cfg.Store.Path = dbPath
	}
	return cfg, nil
}

// app is a fully wired service plus the resources to release afterwards.
type app struct {
	cfg   *config.AppConfig
	svc   *service.Service
	log   *logger.Logger
	store session.Store
}

func (a *app) Close() {
	_ = a.store.Close()
	a.log.Sync()
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var store session.Store
	switch cfg.Store.Type {
	case "memory":
		store = session.NewMemoryStore()
	default:
		st, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		store = st
	}

	idx := index.New(index.Options{MaxFeatures: cfg.Retriever.MaxFeatures, Logger: log})
	svc := service.New(
		chunker.New(cfg.Chunker.MaxWords, cfg.Chunker.OverlapWords),
		idx,
		store,
		summarizer.NewFrequencySummarizer(),
		log,
		service.Options{
			TopK:                cfg.Retriever.TopK,
			MinScore:            cfg.Retriever.MinScore,
			SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		},
	)
	log.Debug("service ready", "store", cfg.Store.Type, "max_words", cfg.Chunker.MaxWords, "max_features", cfg.Retriever.MaxFeatures)
	return &app{cfg: cfg, svc: svc, log: log, store: store}, nil
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}
