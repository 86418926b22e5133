package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Wire shapes for the OpenAI-compatible chat completions endpoint, shared by
// every provider variant in this package.

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
	} `json:"choices"`
}

type chatStreamResponse struct {
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// HTTPStatusError captures non-2xx upstream responses so callers can inspect
// the status code without string matching.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("llm: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

func postChat(ctx context.Context, hc *http.Client, url, apiKey string, body chatRequest) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		_ = res.Body.Close()
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	return res, nil
}

// complete performs a blocking completion and extracts the final text.
func complete(ctx context.Context, hc *http.Client, url, apiKey string, req Request) (Response, error) {
	res, err := postChat(ctx, hc, url, apiKey, chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Response{}, fmt.Errorf("llm: read response body: %w", err)
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Response{}, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return Response{}, errors.New("llm: no choices in response")
	}

	return Response{Text: payload.Choices[0].Message.Content}, nil
}

// stream performs a streamed completion, invoking fn once per server-sent
// chunk in arrival order. The stream ends at EOF or a [DONE] marker.
func stream(ctx context.Context, hc *http.Client, url, apiKey string, req Request, fn func(Chunk) error) error {
	res, err := postChat(ctx, hc, url, apiKey, chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	r := bufio.NewReader(res.Body)
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if err == io.EOF {
			if line == "" {
				return nil
			}
			err = nil
		}
		if err != nil {
			return fmt.Errorf("llm: read stream: %w", err)
		}
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		const prefix = "data: "
		if !strings.HasPrefix(line, prefix) {
			return fmt.Errorf("llm: unexpected stream line %q", line)
		}
		data := line[len(prefix):]
		if data == "[DONE]" {
			return nil
		}

		var msg chatStreamResponse
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			return fmt.Errorf("llm: decode stream chunk %q: %w", data, err)
		}
		if len(msg.Choices) == 0 {
			continue
		}
		if err := fn(Chunk{Content: msg.Choices[0].Delta.Content}); err != nil {
			return err
		}
	}
}

func chatURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}
