package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/careercompass/compass/internal/filestore"
	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
	"github.com/careercompass/compass/internal/pkg/pdftext"
)

// Consumer-side interfaces so the pipeline can run against fakes in tests.
type transcriptSaver interface {
	SaveTranscript(ctx context.Context, userID, text string, mtime int64) error
}

type chunkAppender interface {
	Append(ctx context.Context, chunks []*model.TranscriptChunk) error
}

type textChunker interface {
	Chunk(text string) ([]string, error)
}

type batchEmbedder interface {
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestSummary reports what a transcript upload produced.
type IngestSummary struct {
	ChunksProcessed  int `json:"chunks_processed"`
	TranscriptLength int `json:"transcript_length"`
}

type IngestService struct {
	profiles transcriptSaver
	chunks   chunkAppender
	chunker  textChunker
	embedder batchEmbedder
	files    filestore.Store

	extractText func(data []byte) (string, error)
}

func NewIngestService(profiles transcriptSaver, chunks chunkAppender, chunker textChunker, embedder batchEmbedder, files filestore.Store) *IngestService {
	return &IngestService{
		profiles:    profiles,
		chunks:      chunks,
		chunker:     chunker,
		embedder:    embedder,
		files:       files,
		extractText: pdftext.ExtractText,
	}
}

// ProcessTranscript runs the full ingestion pipeline: extract text from the
// PDF, save it to the profile, then chunk, embed and store the vectors.
//
// Transcript persistence and chunk persistence are two separate commits. A
// failure after the first leaves the transcript saved with no chunks; chat
// retrieval simply finds no transcript context until re-ingestion (or the
// reindex job) fills them in. No rollback is attempted.
func (s *IngestService) ProcessTranscript(ctx context.Context, userID, filename, contentType string, data []byte) (*IngestSummary, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID), zap.String("filename", filename))
	if contentType != "application/pdf" {
		return nil, fmt.Errorf("%w: file must be a PDF", appErr.ErrInvalid)
	}

	text, err := s.extractText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrInvalid, err)
	}
	if isBlank(text) {
		return nil, fmt.Errorf("%w: could not extract text from PDF", appErr.ErrInvalid)
	}

	// Commit 1: the transcript text must survive any later failure.
	if err := s.profiles.SaveTranscript(ctx, userID, text, time.Now().Unix()); err != nil {
		return nil, err
	}
	logger.Info("transcript text saved", zap.Int("length", len(text)))

	// Keep the original document around for re-ingestion. Losing it is not
	// worth failing the pipeline over.
	fileKey := ""
	if s.files != nil {
		key := newID() + ".pdf"
		if err := s.files.Save(ctx, key, bytes.NewReader(data)); err != nil {
			logger.Warn("failed to retain original file", zap.Error(err))
		} else {
			fileKey = key
		}
	}

	pieces, err := s.chunker.Chunk(text)
	if err != nil {
		return nil, err
	}

	vectors, err := s.embedder.EmbedMany(ctx, pieces)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(pieces))
	}

	now := time.Now().Unix()
	chunks := make([]*model.TranscriptChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &model.TranscriptChunk{
			ID:        newID(),
			Content:   piece,
			Embedding: vectors[i],
			Metadata: model.ChunkMetadata{
				Source:  filename,
				Type:    model.ChunkSourceTranscript,
				UserID:  userID,
				FileKey: fileKey,
			},
			Ctime: now,
		})
	}

	// Commit 2: chunks land all at once; re-ingestion appends, never dedups.
	if err := s.chunks.Append(ctx, chunks); err != nil {
		return nil, err
	}
	logger.Info("transcript ingested", zap.Int("chunks", len(chunks)))
	return &IngestSummary{ChunksProcessed: len(chunks), TranscriptLength: len(text)}, nil
}

// RebuildChunks re-embeds saved transcript text whose chunks are missing,
// typically after a failure between the two ingestion commits.
func (s *IngestService) RebuildChunks(ctx context.Context, userID, text string) (int, error) {
	if isBlank(text) {
		return 0, nil
	}
	pieces, err := s.chunker.Chunk(text)
	if err != nil {
		return 0, err
	}
	vectors, err := s.embedder.EmbedMany(ctx, pieces)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(pieces) {
		return 0, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(pieces))
	}
	now := time.Now().Unix()
	chunks := make([]*model.TranscriptChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &model.TranscriptChunk{
			ID:        newID(),
			Content:   piece,
			Embedding: vectors[i],
			Metadata: model.ChunkMetadata{
				Source: "reindex",
				Type:   model.ChunkSourceTranscript,
				UserID: userID,
			},
			Ctime: now,
		})
	}
	if err := s.chunks.Append(ctx, chunks); err != nil {
		return 0, err
	}
	logutil.GetLogger(ctx).Info("chunks rebuilt", zap.String("user_id", userID), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

func isBlank(text string) bool {
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
