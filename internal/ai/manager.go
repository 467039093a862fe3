package ai

import (
	"context"
	"fmt"
	"time"
)

const (
	// EmbeddingDimensions is the vector width of the Gemini embedding
	// models; the transcript_chunks schema depends on it.
	EmbeddingDimensions = 768

	// StructuredTemperature keeps JSON output stable for structured
	// generation tasks like roadmap building.
	StructuredTemperature float32 = 0.2
)

type ManagerConfig struct {
	GenerateModel string
	EmbedModel    string
	Timeout       int
}

// Manager is the gateway facade the services talk to. It pins model names,
// applies the call timeout, and validates embedding dimensions.
type Manager struct {
	provider IProvider
	cfg      ManagerConfig
}

func NewManager(provider IProvider, cfg ManagerConfig) *Manager {
	return &Manager{provider: provider, cfg: cfg}
}

func (m *Manager) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedMany embeds all texts in a single provider call, preserving input
// order, one vector per text.
func (m *Manager) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if m.provider == nil {
		return nil, ErrNotConfigured
	}
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	vectors, err := m.provider.Embed(ctx, m.cfg.EmbedModel, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, upstreamErr(fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts)))
	}
	for i, vector := range vectors {
		if len(vector) != EmbeddingDimensions {
			return nil, upstreamErr(fmt.Errorf("embedding %d has %d dimensions, want %d", i, len(vector), EmbeddingDimensions))
		}
	}
	return vectors, nil
}

func (m *Manager) Generate(ctx context.Context, system, user string) (string, error) {
	return m.generate(ctx, GenerateRequest{System: system, User: user})
}

// GenerateStructured runs the generation at the low temperature mandated
// for strict-JSON outputs.
func (m *Manager) GenerateStructured(ctx context.Context, system, user string) (string, error) {
	temperature := StructuredTemperature
	return m.generate(ctx, GenerateRequest{System: system, User: user, Temperature: &temperature})
}

type GenerateResult struct {
	Text string
	Err  error
}

// GenerateAsync has the same semantics as Generate without blocking the
// caller; the result arrives on the returned channel.
func (m *Manager) GenerateAsync(ctx context.Context, system, user string) <-chan GenerateResult {
	out := make(chan GenerateResult, 1)
	go func() {
		defer close(out)
		text, err := m.Generate(ctx, system, user)
		out <- GenerateResult{Text: text, Err: err}
	}()
	return out
}

func (m *Manager) generate(ctx context.Context, req GenerateRequest) (string, error) {
	if m.provider == nil {
		return "", ErrNotConfigured
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.provider.Generate(ctx, m.cfg.GenerateModel, req)
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
}
