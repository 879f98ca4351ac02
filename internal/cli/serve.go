package cli

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cohergraph/cohergraph/internal/api"
	"github.com/cohergraph/cohergraph/internal/auth"
	"github.com/cohergraph/cohergraph/internal/embeddings"
	"github.com/cohergraph/cohergraph/internal/pipeline"
	"github.com/cohergraph/cohergraph/internal/storage"
	"github.com/cohergraph/cohergraph/pkg/logger"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coherence scoring HTTP API",
	Long: `Serve starts the HTTP API with evaluate, batch-evaluate, health, and
metrics endpoints. With a database configured, embeddings are cached in
Postgres and the auth routes become available; otherwise an in-memory
cache is used.

Example:
  cohergraph serve
  cohergraph serve --addr 0.0.0.0:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides configured host:port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var cache embeddings.Cache
	var authService *auth.Service

	if cfg.Database.Enabled {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		cache = storage.NewPostgresEmbeddingCache(db)
		if cfg.Auth.Enabled {
			authService = auth.NewService(cfg.Auth, auth.NewPostgresUserRepository(db))
		}
	} else {
		ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Minute
		cache = embeddings.NewMemoryCache(ttl, 2*ttl)
	}

	evaluator, oracleReady, err := pipeline.BuildEvaluator(cfg, cache)
	if err != nil {
		return err
	}

	server := api.NewServer(api.ServerConfig{
		Evaluator:   evaluator,
		AuthService: authService,
		Version:     "1.0.0",
		OracleReady: oracleReady,
	})

	addr := serveAddr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	logger.Info("starting server", zap.String("addr", addr), zap.Bool("oracle", oracleReady))
	return server.Run(addr)
}
