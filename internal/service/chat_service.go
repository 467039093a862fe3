package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
)

const chatSystemPrompt = `You are an expert Student Career Counselor AI.
Use the provided context (student transcripts, career info) to answer questions.
If the context doesn't have enough info, say so, but try to be helpful based on general knowledge.`

const defaultRetrievalLimit = 3

type queryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

type chunkSearcher interface {
	Nearest(ctx context.Context, queryVector []float32, limit int) ([]*model.TranscriptChunk, error)
}

type textGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ChatSource is one retrieved chunk returned alongside the reply.
type ChatSource struct {
	Content  string              `json:"content"`
	Metadata model.ChunkMetadata `json:"metadata"`
}

type ChatResult struct {
	Reply   string        `json:"reply"`
	Context []*ChatSource `json:"context"`
}

type ChatService struct {
	embedder  queryEmbedder
	chunks    chunkSearcher
	generator textGenerator
	// Query embeddings are pure functions of the text; caching them saves a
	// provider round-trip for repeated questions.
	embedCache *expirable.LRU[string, []float32]
}

func NewChatService(embedder queryEmbedder, chunks chunkSearcher, generator textGenerator) *ChatService {
	return &ChatService{
		embedder:   embedder,
		chunks:     chunks,
		generator:  generator,
		embedCache: expirable.NewLRU[string, []float32](10000, nil, 2*time.Hour),
	}
}

// Query answers a free-text question with transcript context: embed the
// query, retrieve the nearest chunks, and condition the generation on them.
func (s *ChatService) Query(ctx context.Context, query string, limit int) (*ChatResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, appErr.ErrInvalid
	}
	if limit <= 0 {
		limit = defaultRetrievalLimit
	}
	logger := logutil.GetLogger(ctx).With(zap.Int("limit", limit))

	queryVector, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.chunks.Nearest(ctx, queryVector, limit)
	if err != nil {
		return nil, err
	}
	logger.Debug("retrieved context chunks", zap.Int("count", len(matches)))

	contents := make([]string, 0, len(matches))
	sources := make([]*ChatSource, 0, len(matches))
	for _, match := range matches {
		contents = append(contents, match.Content)
		sources = append(sources, &ChatSource{Content: match.Content, Metadata: match.Metadata})
	}
	contextStr := strings.Join(contents, "\n\n")

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextStr, query)
	reply, err := s.generator.Generate(ctx, chatSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Reply: reply, Context: sources}, nil
}

func (s *ChatService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	hash := sha256.Sum256([]byte(query))
	key := hex.EncodeToString(hash[:])
	if cached, ok := s.embedCache.Get(key); ok {
		return cached, nil
	}
	vector, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}
	s.embedCache.Add(key, vector)
	return vector, nil
}
