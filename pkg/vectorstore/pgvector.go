package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Document is a chunk of text with its embedding and metadata. The
// metadata always carries a "source" key naming the PDF it came from.
type Document struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	Embedding []float32              `json:"embedding,omitempty"`
}

// PGVectorStore handles pgvector operations
type PGVectorStore struct {
	pool      *pgxpool.Pool
	tableName string
}

// isValidTableName validates that a table name contains only safe characters
// to prevent SQL injection attacks
func isValidTableName(name string) bool {
	// Table names must start with a letter or underscore and be between
	// 1-63 chars (PostgreSQL limit)
	matched, _ := regexp.MatchString(`^[a-z_][a-zA-Z0-9_]{0,62}$`, name)
	return matched
}

// NewPGVectorStore creates a new PGVector store
func NewPGVectorStore(pool *pgxpool.Pool, tableName string) (*PGVectorStore, error) {
	if !isValidTableName(tableName) {
		return nil, fmt.Errorf("invalid table name: must contain only alphanumeric characters and underscores, start with a letter or underscore, and be 1-63 characters long")
	}
	return &PGVectorStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// AddDocuments adds documents with embeddings to the vector store
func (vs *PGVectorStore) AddDocuments(ctx context.Context, docs []Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (content, metadata, embedding)
		VALUES ($1, $2, $3)
	`, pgx.Identifier{vs.tableName}.Sanitize())

	batch := &pgx.Batch{}
	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		embedding := pgvector.NewVector(doc.Embedding)
		batch.Queue(query, doc.Content, metadataJSON, embedding)
	}

	br := vs.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	return nil
}

// SimilaritySearchResult represents a search result with score
type SimilaritySearchResult struct {
	Document Document
	Score    float64
}

// SimilaritySearch returns the topK documents closest to queryEmbedding
// by cosine distance. When sourceFilter is non-empty only chunks from
// that source document are considered.
func (vs *PGVectorStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, topK int, sourceFilter string) ([]SimilaritySearchResult, error) {
	var query string
	var args []interface{}

	embedding := pgvector.NewVector(queryEmbedding)

	if sourceFilter != "" {
		query = fmt.Sprintf(`
			SELECT id, content, metadata, 1 - (embedding <=> $1) as similarity
			FROM %s
			WHERE metadata->>'source' = $2
			ORDER BY embedding <=> $1
			LIMIT $3
		`, pgx.Identifier{vs.tableName}.Sanitize())
		args = []interface{}{embedding, sourceFilter, topK}
	} else {
		query = fmt.Sprintf(`
			SELECT id, content, metadata, 1 - (embedding <=> $1) as similarity
			FROM %s
			ORDER BY embedding <=> $1
			LIMIT $2
		`, pgx.Identifier{vs.tableName}.Sanitize())
		args = []interface{}{embedding, topK}
	}

	rows, err := vs.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var results []SimilaritySearchResult
	for rows.Next() {
		var doc Document
		var metadataJSON []byte
		var similarity float64

		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		results = append(results, SimilaritySearchResult{
			Document: doc,
			Score:    similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// GetContentBySource retrieves all documents for a specific source
func (vs *PGVectorStore) GetContentBySource(ctx context.Context, source string) ([]Document, error) {
	query := fmt.Sprintf(`
		SELECT id, content, metadata
		FROM %s
		WHERE metadata->>'source' = $1
	`, pgx.Identifier{vs.tableName}.Sanitize())

	rows, err := vs.pool.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var doc Document
		var metadataJSON []byte

		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return documents, nil
}

// DeleteBySource removes every chunk belonging to a source document.
// Re-ingesting a PDF calls this first so chunks are never duplicated.
func (vs *PGVectorStore) DeleteBySource(ctx context.Context, source string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE metadata->>'source' = $1
	`, pgx.Identifier{vs.tableName}.Sanitize())

	result, err := vs.pool.Exec(ctx, query, source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}

	return result.RowsAffected(), nil
}
