package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const OllamaID = "ollama"

const defaultOllamaBaseURL = "http://localhost:11434/v1"

// Ollama talks to a local Ollama daemon through its OpenAI-compatible
// endpoint. No authentication.
type Ollama struct {
	baseURL string
	hc      *http.Client
}

func NewOllama(baseURL string) *Ollama {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &Ollama{
		baseURL: baseURL,
		// Local generation can be slow on first token.
		hc: &http.Client{Timeout: 15 * time.Minute},
	}
}

func (c *Ollama) ID() string {
	return OllamaID
}

func (c *Ollama) Complete(ctx context.Context, req Request) (Response, error) {
	return complete(ctx, c.hc, chatURL(c.baseURL), "", req)
}

func (c *Ollama) Stream(ctx context.Context, req Request, fn func(Chunk) error) error {
	return stream(ctx, c.hc, chatURL(c.baseURL), "", req, fn)
}
