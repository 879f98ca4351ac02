package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/cohergraph/cohergraph/internal/api"
	"github.com/cohergraph/cohergraph/internal/auth"
	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/embeddings"
	"github.com/cohergraph/cohergraph/internal/pipeline"
	"github.com/cohergraph/cohergraph/internal/storage"
	"github.com/cohergraph/cohergraph/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	var cache embeddings.Cache
	var authService *auth.Service

	if cfg.Database.Enabled {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			logger.Fatal("database open failed", zap.Error(err))
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Fatal("database ping failed", zap.Error(err))
		}

		cache = storage.NewPostgresEmbeddingCache(db)
		if cfg.Auth.Enabled {
			authService = auth.NewService(cfg.Auth, auth.NewPostgresUserRepository(db))
		}
	} else {
		ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Minute
		cache = embeddings.NewMemoryCache(ttl, 2*ttl)
		if cfg.Auth.Enabled {
			logger.Warn("auth enabled but database disabled, auth routes unavailable")
		}
	}

	evaluator, oracleReady, err := pipeline.BuildEvaluator(cfg, cache)
	if err != nil {
		logger.Fatal("pipeline setup failed", zap.Error(err))
	}

	server := api.NewServer(api.ServerConfig{
		Evaluator:   evaluator,
		AuthService: authService,
		Version:     version,
		OracleReady: oracleReady,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", zap.String("addr", addr), zap.Bool("oracle", oracleReady))
	if err := server.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
