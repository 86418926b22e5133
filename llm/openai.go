package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const OpenAIID = "openai"

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI is a completion client for the OpenAI Chat Completions API.
type OpenAI struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

type OpenAIOption func(*OpenAI)

func WithBaseURL(baseURL string) OpenAIOption {
	return func(c *OpenAI) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAI) {
		c.hc = hc
	}
}

func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	c := &OpenAI{
		apiKey:  apiKey,
		baseURL: defaultOpenAIBaseURL,
		hc:      &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = defaultOpenAIBaseURL
	}
	return c
}

func (c *OpenAI) ID() string {
	return OpenAIID
}

func (c *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	return complete(ctx, c.hc, chatURL(c.baseURL), c.apiKey, req)
}

func (c *OpenAI) Stream(ctx context.Context, req Request, fn func(Chunk) error) error {
	return stream(ctx, c.hc, chatURL(c.baseURL), c.apiKey, req, fn)
}
