// Package chat turns finished transcripts into assistant replies
// through an OpenAI-compatible chat completion API.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/config"
)

const systemPrompt = "You are a concise assistant. Reply to the transcribed speech below in a few sentences."

// Responder sends transcripts to a chat model and returns its reply.
type Responder struct {
	provider string
	apiKey   string
	baseURL  string
	model    string
}

// NewResponder builds a responder for the selected provider. It
// returns nil without error when the provider has no API key saved;
// callers treat chat as an optional feature.
func NewResponder(provider string, store *config.Store) (*Responder, error) {
	var section string
	switch provider {
	case args.ProviderOpenAI:
		section = config.SectionOpenAI
	case args.ProviderTogether:
		section = config.SectionTogether
	default:
		return nil, fmt.Errorf("unknown chat inference provider %q", provider)
	}

	apiKey := strings.TrimSpace(store.String(section, config.KeyAPIKey))
	if apiKey == "" {
		return nil, nil
	}

	return &Responder{
		provider: provider,
		apiKey:   apiKey,
		baseURL:  strings.TrimSpace(store.String(section, config.KeyBaseURL)),
		model:    strings.TrimSpace(store.String(section, config.KeyChatModel)),
	}, nil
}

// Provider reports which provider this responder talks to.
func (r *Responder) Provider() string {
	return r.provider
}

// Suggest asks the chat model to respond to one transcript.
func (r *Responder) Suggest(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", errors.New("nothing to respond to")
	}

	opts := []option.RequestOption{option.WithAPIKey(r.apiKey)}
	if r.baseURL != "" {
		opts = append(opts, option.WithBaseURL(r.baseURL))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(transcript),
		},
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", r.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
