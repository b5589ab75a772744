package database

import (
	"context"
	"fmt"
)

func (db *PostgresDB) InitSchema(ctx context.Context) error {
	// 1. Uploaded Documents Table
	docsQuery := `
		CREATE TABLE IF NOT EXISTS documents (
			filename TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, docsQuery); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	// 2. Chat Messages Table, keyed by the PDF the conversation is about
	msgQuery := `
		CREATE TABLE IF NOT EXISTS chat_messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			pdf_filename TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, msgQuery); err != nil {
		return fmt.Errorf("failed to create chat_messages table: %w", err)
	}

	// Indexes for faster querying
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_chat_messages_pdf_filename ON chat_messages(pdf_filename)"); err != nil {
		return fmt.Errorf("failed to create index on chat_messages: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_chat_messages_created_at ON chat_messages(created_at)"); err != nil {
		return fmt.Errorf("failed to create index on chat_messages: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_documents_checksum ON documents(checksum)"); err != nil {
		return fmt.Errorf("failed to create index on documents: %w", err)
	}

	return nil
}
