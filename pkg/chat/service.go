package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mikeboe/pdf-chat/pkg/database"
)

// Service persists per-document chat transcripts. Each uploaded PDF has
// its own conversation keyed by filename.
type Service struct {
	DB *database.PostgresDB
}

type Message struct {
	ID          uuid.UUID `json:"id"`
	PDFFilename string    `json:"pdf_filename"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewService(db *database.PostgresDB) *Service {
	return &Service{DB: db}
}

// Append stores one message in a document's conversation. Role is
// "user" or "assistant".
func (s *Service) Append(ctx context.Context, pdfFilename, role, content string) (*Message, error) {
	id := uuid.New()
	query := `
		INSERT INTO chat_messages (id, pdf_filename, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pdf_filename, role, content, created_at
	`

	msg := &Message{}
	err := s.DB.Pool.QueryRow(ctx, query, id, pdfFilename, role, content).
		Scan(&msg.ID, &msg.PDFFilename, &msg.Role, &msg.Content, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}
	return msg, nil
}

// History returns a document's conversation in chronological order.
func (s *Service) History(ctx context.Context, pdfFilename string) ([]Message, error) {
	query := `
		SELECT id, pdf_filename, role, content, created_at
		FROM chat_messages
		WHERE pdf_filename = $1
		ORDER BY created_at ASC
	`
	rows, err := s.DB.Pool.Query(ctx, query, pdfFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %w", err)
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.PDFFilename, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}
	return msgs, nil
}

// Clear deletes a document's conversation and reports how many messages
// were removed.
func (s *Service) Clear(ctx context.Context, pdfFilename string) (int64, error) {
	result, err := s.DB.Pool.Exec(ctx,
		`DELETE FROM chat_messages WHERE pdf_filename = $1`, pdfFilename)
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", err)
	}
	return result.RowsAffected(), nil
}

// ClearAll deletes every conversation.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	result, err := s.DB.Pool.Exec(ctx, `DELETE FROM chat_messages`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", err)
	}
	return result.RowsAffected(), nil
}
