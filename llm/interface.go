package llm

import "context"

// Request carries one completion exchange to a provider.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// Response is the final payload of a non-streamed completion.
type Response struct {
	Text string
}

// Chunk is one incremental fragment of a streamed completion. A chunk that
// carried no content fragment has an empty Content.
type Chunk struct {
	Content string
}

// Client is a completion provider. Implementations keep all request state
// per call, so a single client may be used from multiple goroutines.
type Client interface {
	ID() string
	Complete(ctx context.Context, req Request) (Response, error)
	Stream(ctx context.Context, req Request, fn func(Chunk) error) error
}
