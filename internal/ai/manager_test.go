package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	generateFn func(ctx context.Context, model string, req GenerateRequest) (string, error)
	embedFn    func(ctx context.Context, model string, texts []string) ([][]float32, error)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Generate(ctx context.Context, model string, req GenerateRequest) (string, error) {
	return p.generateFn(ctx, model, req)
}

func (p *fakeProvider) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	return p.embedFn(ctx, model, texts)
}

func fixedVector(seed float32) []float32 {
	v := make([]float32, EmbeddingDimensions)
	for i := range v {
		v[i] = seed
	}
	return v
}

func TestManagerNotConfigured(t *testing.T) {
	m := NewManager(nil, ManagerConfig{})

	_, err := m.EmbedOne(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = m.Generate(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestManagerEmbedManyPreservesOrder(t *testing.T) {
	provider := &fakeProvider{
		embedFn: func(_ context.Context, _ string, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = fixedVector(float32(i))
			}
			return out, nil
		},
	}
	m := NewManager(provider, ManagerConfig{EmbedModel: "test-embed"})

	vectors, err := m.EmbedMany(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for i, vector := range vectors {
		assert.Equal(t, float32(i), vector[0])
		assert.Len(t, vector, EmbeddingDimensions)
	}
}

func TestManagerEmbedDimensionCheck(t *testing.T) {
	provider := &fakeProvider{
		embedFn: func(_ context.Context, _ string, texts []string) ([][]float32, error) {
			return [][]float32{make([]float32, 5)}, nil
		},
	}
	m := NewManager(provider, ManagerConfig{})

	_, err := m.EmbedOne(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestManagerEmbedVectorCountCheck(t *testing.T) {
	provider := &fakeProvider{
		embedFn: func(_ context.Context, _ string, texts []string) ([][]float32, error) {
			return [][]float32{fixedVector(1)}, nil
		},
	}
	m := NewManager(provider, ManagerConfig{})

	_, err := m.EmbedMany(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrUpstream)

	// Matching counts pass; EmbedOne relies on this check before indexing.
	_, err = m.EmbedOne(context.Background(), "a")
	require.NoError(t, err)
}

func TestManagerUpstreamErrorPassesThrough(t *testing.T) {
	boom := upstreamErr(fmt.Errorf("quota exceeded"))
	provider := &fakeProvider{
		generateFn: func(context.Context, string, GenerateRequest) (string, error) {
			return "", boom
		},
	}
	m := NewManager(provider, ManagerConfig{})

	_, err := m.Generate(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.False(t, errors.Is(err, ErrNotConfigured))
}

func TestManagerGenerateStructuredTemperature(t *testing.T) {
	var got *float32
	provider := &fakeProvider{
		generateFn: func(_ context.Context, _ string, req GenerateRequest) (string, error) {
			got = req.Temperature
			return "ok", nil
		},
	}
	m := NewManager(provider, ManagerConfig{GenerateModel: "test-gen"})

	_, err := m.GenerateStructured(context.Background(), "sys", "user")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StructuredTemperature, *got)

	got = nil
	_, err = m.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManagerGenerateAsync(t *testing.T) {
	provider := &fakeProvider{
		generateFn: func(_ context.Context, _ string, req GenerateRequest) (string, error) {
			return "reply to " + req.User, nil
		},
	}
	m := NewManager(provider, ManagerConfig{})

	result := <-m.GenerateAsync(context.Background(), "sys", "question")
	require.NoError(t, result.Err)
	assert.Equal(t, "reply to question", result.Text)
}
