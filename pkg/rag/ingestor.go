package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/mikeboe/pdf-chat/pkg/database"
	"github.com/mikeboe/pdf-chat/pkg/embeddings"
	"github.com/mikeboe/pdf-chat/pkg/vectorstore"
)

// Ingestor turns uploaded PDFs into embedded chunks in the vector store.
type Ingestor struct {
	db       *database.PostgresDB
	store    *vectorstore.PGVectorStore
	embedder embeddings.Embedder
	splitter textsplitter.TextSplitter
	logger   *slog.Logger
}

// IngestResult reports what an ingestion run did.
type IngestResult struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Skipped  bool   `json:"skipped"`
}

func NewIngestor(db *database.PostgresDB, store *vectorstore.PGVectorStore, embedder embeddings.Embedder, chunkSize, chunkOverlap int, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		db:       db,
		store:    store,
		embedder: embedder,
		// Recursive splitting breaks on paragraph, then line, then word
		// boundaries, keeping chunkOverlap characters of shared context.
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		logger:   logger,
	}
}

// IngestPDF loads the PDF at path, splits it into chunks, embeds them and
// stores them under the file's base name as source. When the file content
// matches the checksum recorded for an earlier ingestion of the same
// filename, the run is skipped.
func (in *Ingestor) IngestPDF(ctx context.Context, path string) (*IngestResult, error) {
	filename := filepath.Base(path)

	checksum, err := fileChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum %s: %w", filename, err)
	}

	existing, err := in.db.GetDocumentChecksum(ctx, filename)
	if err != nil {
		return nil, err
	}
	if existing == checksum {
		in.logger.Info("document already ingested, skipping", "filename", filename)
		return &IngestResult{Filename: filename, Skipped: true}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filename, err)
	}

	loader := documentloaders.NewPDF(f, info.Size())
	pages, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load PDF %s: %w", filename, err)
	}

	var docs []vectorstore.Document
	for i, page := range pages {
		chunks, err := in.splitter.SplitText(page.PageContent)
		if err != nil {
			return nil, fmt.Errorf("failed to split page %d of %s: %w", i+1, filename, err)
		}
		for _, chunk := range chunks {
			if chunk == "" {
				continue
			}
			docs = append(docs, vectorstore.Document{
				Content: chunk,
				Metadata: map[string]interface{}{
					"source": filename,
					"page":   i + 1,
				},
			})
		}
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no text extracted from %s", filename)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	vectors, err := in.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks of %s: %w", filename, err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(docs))
	}
	for i := range docs {
		docs[i].Embedding = vectors[i]
	}

	// Re-ingesting replaces the old chunks rather than accumulating.
	if _, err := in.store.DeleteBySource(ctx, filename); err != nil {
		return nil, err
	}
	if err := in.store.AddDocuments(ctx, docs); err != nil {
		return nil, err
	}
	if err := in.db.UpsertDocument(ctx, filename, checksum); err != nil {
		return nil, err
	}

	in.logger.Info("ingested document", "filename", filename, "chunks", len(docs))
	return &IngestResult{Filename: filename, Chunks: len(docs)}, nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
