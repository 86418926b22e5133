// Package bot implements the stateless chat-completion bridge: a system
// prompt plus a human message in, a single assistant message out.
package bot

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/requiem-ai/repobot/llm"
)

// DefaultModel is used when the caller supplies no model name.
const DefaultModel = "mistral/mistral-medium"

// SimpleBot sends a fixed system prompt and a human message to a completion
// provider and returns the reply. It retains no conversation history: every
// call is independent. The bot adds no locking of its own; concurrent use is
// only as safe as the underlying client.
type SimpleBot struct {
	systemPrompt llm.Message
	modelName    string
	temperature  float64
	streaming    bool

	providers llm.ProviderConfig
	client    llm.Client
	model     string
	recorder  Recorder
	out       io.Writer
}

type Option func(*SimpleBot)

// WithModel selects the model, in "provider/model" form. Defaults to
// DefaultModel.
func WithModel(name string) Option {
	return func(b *SimpleBot) {
		b.modelName = name
	}
}

// WithTemperature sets the sampling temperature, in [0, 1]. Defaults to 0.
func WithTemperature(t float64) Option {
	return func(b *SimpleBot) {
		b.temperature = t
	}
}

// WithStreaming toggles incremental response consumption. Defaults to true.
func WithStreaming(streaming bool) Option {
	return func(b *SimpleBot) {
		b.streaming = streaming
	}
}

// WithProviders supplies provider credentials and endpoints used when the
// model name is resolved to a client.
func WithProviders(cfg llm.ProviderConfig) Option {
	return func(b *SimpleBot) {
		b.providers = cfg
	}
}

// WithRecorder sets the exchange recorder. Defaults to a LogRecorder.
func WithRecorder(r Recorder) Option {
	return func(b *SimpleBot) {
		b.recorder = r
	}
}

// WithOutput sets the sink streamed fragments are written to as they
// arrive. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(b *SimpleBot) {
		b.out = w
	}
}

// WithClient bypasses model-name resolution and uses the given client
// directly, keeping the supplied model name for requests.
func WithClient(c llm.Client) Option {
	return func(b *SimpleBot) {
		b.client = c
	}
}

// New builds a bot primed with the given system prompt. The model name is
// resolved to a provider client exactly once, here; an unknown provider
// returns llm.ErrUnknownProvider. Configuration is fixed for the lifetime
// of the bot.
func New(systemPrompt string, opts ...Option) (*SimpleBot, error) {
	b := &SimpleBot{
		systemPrompt: llm.System(systemPrompt),
		modelName:    DefaultModel,
		streaming:    true,
		out:          os.Stdout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.recorder == nil {
		b.recorder = LogRecorder{}
	}

	if b.client == nil {
		client, model, err := llm.Resolve(b.modelName, b.providers)
		if err != nil {
			return nil, err
		}
		b.client = client
		b.model = model
	} else if b.model == "" {
		b.model = b.modelName
	}

	return b, nil
}

// Call sends the human message, primed by the system prompt, and returns the
// assistant reply. Client faults propagate to the caller as-is; no retry, no
// partial result. The recorder runs after every successful exchange and can
// never fail the call.
func (b *SimpleBot) Call(ctx context.Context, humanMessage string) (llm.Message, error) {
	messages := []llm.Message{
		b.systemPrompt,
		llm.Human(humanMessage),
	}

	text, err := b.generate(ctx, messages)
	if err != nil {
		return llm.Message{}, err
	}

	b.record(humanMessage, text)

	return llm.AI(text), nil
}

func (b *SimpleBot) generate(ctx context.Context, messages []llm.Message) (string, error) {
	req := llm.Request{
		Model:       b.model,
		Messages:    messages,
		Temperature: b.temperature,
	}

	if !b.streaming {
		resp, err := b.client.Complete(ctx, req)
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}

	var acc strings.Builder
	err := b.client.Stream(ctx, req, func(c llm.Chunk) error {
		if c.Content == "" {
			return nil
		}
		fmt.Fprint(b.out, c.Content)
		acc.WriteString(c.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return acc.String(), nil
}

// record invokes the recorder, containing any error or panic. Recorder
// faults are a logging concern only.
func (b *SimpleBot) record(prompt, response string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("recorder panicked")
		}
	}()
	b.recorder.Record(prompt, response)
}
