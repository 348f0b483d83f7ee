package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/ai"
	"github.com/spigell/careerquest/internal/ai/gemini"
	"github.com/spigell/careerquest/internal/enrich"
	"github.com/spigell/careerquest/internal/guild"
	"github.com/spigell/careerquest/internal/logger"
	"github.com/spigell/careerquest/internal/progression"
	"github.com/spigell/careerquest/internal/secrets"
	"github.com/spigell/careerquest/internal/storage"
)

// store is what the commands need from either backend.
type store interface {
	guild.Store
	storage.Writer
}

// runtime carries everything a command needs.
type runtime struct {
	config  *Config
	logger  *zap.Logger
	store   store
	service *guild.Service
	rewards progression.Rewards

	db     *sql.DB
	memory *storage.Memory
}

// newRuntime builds the logger, the store and the service. Failures are fatal
// the same way for every command.
func newRuntime(ctx context.Context) *runtime {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	rt := &runtime{config: config, logger: logger}

	if strings.TrimSpace(config.DatabaseURL) != "" {
		db, err := storage.Connect(ctx, config.DatabaseURL, config.Database)
		if err != nil {
			logger.Fatal("connecting to the database", zap.Error(err))
		}
		rt.db = db
		rt.store = storage.NewPostgres(db)
	} else {
		memory, err := storage.OpenFile(ctx, config.DataFile)
		if err != nil {
			logger.Fatal("opening the data file", zap.Error(err), zap.String("data_file", config.DataFile))
		}
		logger.Debug("using file-backed store", zap.String("data_file", config.DataFile))
		rt.memory = memory
		rt.store = memory
	}

	rewards, err := progression.WithOverrides(config.Rewards)
	if err != nil {
		logger.Fatal("reading reward overrides", zap.Error(err))
	}

	delegate := enrich.NewDelegate(newGenerator(ctx, config.AI, logger), aiTimeout(config.AI), maxLogLength(config.AI), logger)

	rt.rewards = rewards
	rt.service = guild.New(rt.store, delegate, guild.Config{Rewards: rewards, Board: config.Board}, logger)
	return rt
}

// persist writes the file-backed store back after a mutating command.
func (rt *runtime) persist() {
	if rt.memory == nil {
		return
	}
	if err := rt.memory.WriteFile(rt.config.DataFile); err != nil {
		rt.logger.Fatal("writing the data file", zap.Error(err), zap.String("data_file", rt.config.DataFile))
	}
}

func (rt *runtime) close() {
	if rt.db != nil {
		_ = rt.db.Close()
	}
	_ = rt.logger.Sync()
}

// newGenerator returns nil when enrichment is disabled or cannot be set up.
// Scoring then stays deterministic.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ai.Generator {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		logger.Warn("skipping enrichment", zap.String("reason", "unsupported ai provider"), zap.String("provider", cfg.Provider))
		return nil
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	keySource := secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	}
	if !secrets.Configured(keySource) {
		logger.Info("skipping enrichment",
			zap.String("reason", "gemini api key is not configured"),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file"),
		)
		return nil
	}

	apiKey, err := secrets.Load(keySource)
	if err != nil {
		logger.Warn("skipping enrichment",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file"),
		)
		return nil
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		logger.Warn("skipping enrichment", zap.Error(err))
		return nil
	}
	return generator
}

func aiTimeout(cfg *AIConfig) time.Duration {
	if cfg == nil {
		return 0
	}
	return cfg.Timeout
}

func maxLogLength(cfg *AIConfig) int {
	if cfg == nil || cfg.Gemini == nil {
		return 0
	}
	return cfg.Gemini.MaxLogLength
}

func redacted(cfg *Config) Config {
	out := *cfg
	if out.DatabaseURL != "" {
		out.DatabaseURL = "<redacted>"
	}
	if out.AI != nil && out.AI.Gemini != nil && out.AI.Gemini.APIKey != "" {
		aiCfg := *out.AI
		g := *aiCfg.Gemini
		g.APIKey = "<redacted>"
		aiCfg.Gemini = &g
		out.AI = &aiCfg
	}
	return out
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
