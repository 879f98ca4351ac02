package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// CachedEmbedding is one persisted embedding row.
type CachedEmbedding struct {
	ID        uuid.UUID
	Key       string
	Embedding pgvector.Vector
	CreatedAt time.Time
}

// PostgresEmbeddingCache persists sentence embeddings in Postgres with
// pgvector, so restarts and multiple workers share one embedding cache.
// It implements the embeddings.Cache interface.
type PostgresEmbeddingCache struct {
	db *sql.DB
}

// NewPostgresEmbeddingCache creates a Postgres-backed embedding cache.
func NewPostgresEmbeddingCache(db *sql.DB) *PostgresEmbeddingCache {
	return &PostgresEmbeddingCache{db: db}
}

// Get retrieves one embedding by cache key.
func (r *PostgresEmbeddingCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	query := `SELECT embedding FROM embedding_cache WHERE key = $1`

	var vec pgvector.Vector
	err := r.db.QueryRowContext(ctx, query, key).Scan(&vec)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get embedding: %w", err)
	}

	return vec.Slice(), true, nil
}

// Set stores one embedding, replacing any existing row for the key.
func (r *PostgresEmbeddingCache) Set(ctx context.Context, key string, embedding []float32) error {
	query := `
		INSERT INTO embedding_cache (id, key, embedding, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET embedding = EXCLUDED.embedding
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		key,
		pgvector.NewVector(embedding),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set embedding: %w", err)
	}

	return nil
}

// GetMulti retrieves all cached embeddings for the given keys.
func (r *PostgresEmbeddingCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	found := make(map[string][]float32)
	if len(keys) == 0 {
		return found, nil
	}

	query := `SELECT key, embedding FROM embedding_cache WHERE key = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("get embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var vec pgvector.Vector
		if err := rows.Scan(&key, &vec); err != nil {
			return nil, fmt.Errorf("scan embedding row: %w", err)
		}
		found[key] = vec.Slice()
	}

	return found, rows.Err()
}

// SetMulti stores multiple embeddings in a single transaction.
func (r *PostgresEmbeddingCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embedding_cache (id, key, embedding, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET embedding = EXCLUDED.embedding
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for key, emb := range embeddings {
		if _, err := stmt.ExecContext(ctx, uuid.New(), key, pgvector.NewVector(emb), now); err != nil {
			return fmt.Errorf("insert embedding %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Prune deletes cache rows older than the retention window. Returns the
// number of rows removed.
func (r *PostgresEmbeddingCache) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM embedding_cache WHERE created_at < $1`,
		time.Now().Add(-olderThan),
	)
	if err != nil {
		return 0, fmt.Errorf("prune embedding cache: %w", err)
	}
	return res.RowsAffected()
}
