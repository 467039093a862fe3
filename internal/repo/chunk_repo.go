package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pgvector/pgvector-go"

	"github.com/careercompass/compass/internal/model"
)

type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Append inserts the chunks in one transaction. Chunks are never updated;
// re-ingestion simply appends a new generation of rows.
func (r *ChunkRepo) Append(ctx context.Context, chunks []*model.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		INSERT INTO transcript_chunks (id, content, metadata, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			chunk.ID,
			chunk.Content,
			metadata,
			pgvector.NewVector(chunk.Embedding),
			chunk.Ctime,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Nearest returns up to limit chunks ordered by ascending L2 distance to
// the query vector. Ties are left to the database; no stable tie-break
// order is promised.
func (r *ChunkRepo) Nearest(ctx context.Context, queryVector []float32, limit int) ([]*model.TranscriptChunk, error) {
	const query = `
		SELECT id, content, metadata, ctime
		FROM transcript_chunks
		ORDER BY embedding <-> $1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(queryVector), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var chunks []*model.TranscriptChunk
	for rows.Next() {
		var chunk model.TranscriptChunk
		var metadata []byte
		if err := rows.Scan(&chunk.ID, &chunk.Content, &metadata, &chunk.Ctime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metadata, &chunk.Metadata); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// CountByUser reports how many chunks a user owns; the reindex job uses it
// to find profiles whose transcript was saved but never chunked.
func (r *ChunkRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM transcript_chunks WHERE metadata->>'user_id' = $1`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
