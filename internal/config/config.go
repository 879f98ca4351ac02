package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Oracle    OracleConfig
	Pipeline  PipelineConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
}

type AuthConfig struct {
	SecretKey  string
	TokenHours int
	Enabled    bool
}

type DatabaseConfig struct {
	URL     string
	Enabled bool
}

type EmbeddingConfig struct {
	Provider  string // "openai" or "local"
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	BatchSize int
	CacheTTL  int // minutes, memory cache
}

type OracleConfig struct {
	URL        string
	TimeoutSec int
}

// PipelineConfig carries every coefficient the graph builder and scorer read.
// All formulas pull their constants from here rather than from literals spread
// through call sites.
type PipelineConfig struct {
	Alpha               float64 // similarity weight in edge blend
	Beta                float64 // continuity weight
	Gamma               float64 // syntactic weight
	DiscourseBoost      float64
	SimilarityThreshold float64
	TopK                int
	CalibrationWindow   int
	Enhanced            bool   // discourse/syntactic blend, sharpening, capping, calibration
	EntropySharpening   bool   // temperature sharpening of the row distribution
	DisruptionFormula   string // "entropy_weighted" or "weakness_scaled"
	BatchWorkers        int
}

type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/cohergraph")

	viper.SetEnvPrefix("COHERGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks pipeline coefficients for obvious misconfiguration.
func (p PipelineConfig) Validate() error {
	if p.Alpha < 0 || p.Beta < 0 || p.Gamma < 0 {
		return fmt.Errorf("pipeline weights must be non-negative (alpha=%v beta=%v gamma=%v)", p.Alpha, p.Beta, p.Gamma)
	}
	if p.TopK <= 0 {
		return fmt.Errorf("pipeline top_k must be positive, got %d", p.TopK)
	}
	if p.CalibrationWindow <= 0 {
		return fmt.Errorf("pipeline calibration_window must be positive, got %d", p.CalibrationWindow)
	}
	switch p.DisruptionFormula {
	case "entropy_weighted", "weakness_scaled":
	default:
		return fmt.Errorf("unknown disruption_formula %q", p.DisruptionFormula)
	}
	return nil
}

// DefaultPipeline returns the pipeline coefficients used when no config is present.
func DefaultPipeline() PipelineConfig {
	return PipelineConfig{
		Alpha:               0.7,
		Beta:                0.2,
		Gamma:               0.1,
		DiscourseBoost:      0.1,
		SimilarityThreshold: 0.0,
		TopK:                5,
		CalibrationWindow:   100,
		Enhanced:            true,
		EntropySharpening:   true,
		DisruptionFormula:   "entropy_weighted",
		BatchWorkers:        4,
	}
}

func setDefaults() {
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readtimeout", 30)
	viper.SetDefault("server.writetimeout", 60)

	viper.SetDefault("auth.secretkey", "dev-secret-change-in-production")
	viper.SetDefault("auth.tokenhours", 24)
	viper.SetDefault("auth.enabled", false)

	viper.SetDefault("database.url", "")
	viper.SetDefault("database.enabled", false)

	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.apikey", "")
	viper.SetDefault("embedding.baseurl", "")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimension", 1536)
	viper.SetDefault("embedding.batchsize", 64)
	viper.SetDefault("embedding.cachettl", 60)

	viper.SetDefault("oracle.url", "")
	viper.SetDefault("oracle.timeoutsec", 10)

	def := DefaultPipeline()
	viper.SetDefault("pipeline.alpha", def.Alpha)
	viper.SetDefault("pipeline.beta", def.Beta)
	viper.SetDefault("pipeline.gamma", def.Gamma)
	viper.SetDefault("pipeline.discourseboost", def.DiscourseBoost)
	viper.SetDefault("pipeline.similaritythreshold", def.SimilarityThreshold)
	viper.SetDefault("pipeline.topk", def.TopK)
	viper.SetDefault("pipeline.calibrationwindow", def.CalibrationWindow)
	viper.SetDefault("pipeline.enhanced", def.Enhanced)
	viper.SetDefault("pipeline.entropysharpening", def.EntropySharpening)
	viper.SetDefault("pipeline.disruptionformula", def.DisruptionFormula)
	viper.SetDefault("pipeline.batchworkers", def.BatchWorkers)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.output", "stdout")
}
