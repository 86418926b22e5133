package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProvider is returned when a model name cannot be mapped to a
// known provider variant.
var ErrUnknownProvider = errors.New("unknown model provider")

// ProviderConfig carries the per-provider settings needed to construct a
// client. It is resolved once at startup and threaded through explicitly.
type ProviderConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	MistralAPIKey  string
	MistralBaseURL string
	OllamaBaseURL  string
}

// Resolve maps a user-facing model name to a provider client and the bare
// model name that provider expects. Names take the form "provider/model";
// a name without a provider prefix selects OpenAI. Resolution is a pure
// mapping with no side effect beyond client construction.
func Resolve(name string, cfg ProviderConfig) (Client, string, error) {
	provider, model := splitModelName(name)

	switch provider {
	case OpenAIID:
		var opts []OpenAIOption
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.OpenAIBaseURL))
		}
		return NewOpenAI(cfg.OpenAIAPIKey, opts...), model, nil
	case MistralID:
		var opts []MistralOption
		if cfg.MistralBaseURL != "" {
			opts = append(opts, WithMistralBaseURL(cfg.MistralBaseURL))
		}
		return NewMistral(cfg.MistralAPIKey, opts...), model, nil
	case OllamaID:
		return NewOllama(cfg.OllamaBaseURL), model, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func splitModelName(name string) (provider, model string) {
	name = strings.TrimSpace(name)
	i := strings.Index(name, "/")
	if i < 0 {
		return OpenAIID, name
	}
	return name[:i], name[i+1:]
}
