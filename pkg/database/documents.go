package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetDocumentChecksum returns the stored checksum for filename, or ""
// when the document has not been ingested yet.
func (db *PostgresDB) GetDocumentChecksum(ctx context.Context, filename string) (string, error) {
	var checksum string
	err := db.Pool.QueryRow(ctx,
		"SELECT checksum FROM documents WHERE filename = $1", filename,
	).Scan(&checksum)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up document: %w", err)
	}
	return checksum, nil
}

// UpsertDocument records a document's checksum, replacing any previous
// record for the same filename.
func (db *PostgresDB) UpsertDocument(ctx context.Context, filename, checksum string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO documents (filename, checksum)
		VALUES ($1, $2)
		ON CONFLICT (filename) DO UPDATE SET checksum = EXCLUDED.checksum, created_at = NOW()
	`, filename, checksum)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}
