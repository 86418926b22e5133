package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const MistralID = "mistral"

const defaultMistralBaseURL = "https://api.mistral.ai/v1"

// Mistral is a completion client for the Mistral platform, which serves the
// same chat-completions wire format as OpenAI.
type Mistral struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

type MistralOption func(*Mistral)

func WithMistralBaseURL(baseURL string) MistralOption {
	return func(c *Mistral) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithMistralHTTPClient(hc *http.Client) MistralOption {
	return func(c *Mistral) {
		c.hc = hc
	}
}

func NewMistral(apiKey string, opts ...MistralOption) *Mistral {
	c := &Mistral{
		apiKey:  apiKey,
		baseURL: defaultMistralBaseURL,
		hc:      &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = defaultMistralBaseURL
	}
	return c
}

func (c *Mistral) ID() string {
	return MistralID
}

func (c *Mistral) Complete(ctx context.Context, req Request) (Response, error) {
	return complete(ctx, c.hc, chatURL(c.baseURL), c.apiKey, req)
}

func (c *Mistral) Stream(ctx context.Context, req Request, fn func(Chunk) error) error {
	return stream(ctx, c.hc, chatURL(c.baseURL), c.apiKey, req, fn)
}
