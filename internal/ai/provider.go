package ai

import (
	"context"
	"fmt"
	"strings"
)

// GenerateRequest is a two-message exchange: a system instruction and a user
// prompt. Temperature is optional; nil leaves the provider default.
type GenerateRequest struct {
	System      string
	User        string
	Temperature *float32
}

type IProvider interface {
	Name() string
	Generate(ctx context.Context, model string, req GenerateRequest) (string, error)
	// Embed returns one vector per input text, in input order. The call is
	// atomic: either every text is embedded or an error is returned.
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}
