package stt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/config"
)

// whisperEngine recognizes speech through the hosted OpenAI audio API.
type whisperEngine struct {
	apiKey  string
	baseURL string
}

func newWhisperEngine(store *config.Store) *whisperEngine {
	return &whisperEngine{
		apiKey:  strings.TrimSpace(store.String(config.SectionOpenAI, config.KeyAPIKey)),
		baseURL: strings.TrimSpace(store.String(config.SectionOpenAI, config.KeyBaseURL)),
	}
}

func (e *whisperEngine) Name() string {
	return args.EngineWhisper
}

func (e *whisperEngine) Transcribe(ctx context.Context, path string) (string, error) {
	if e.apiKey == "" {
		return "", errors.New("OpenAI API key is not set; save one with --save_api_key")
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file %q: %w", path, err)
	}
	defer file.Close()

	opts := []option.RequestOption{option.WithAPIKey(e.apiKey)}
	if e.baseURL != "" {
		opts = append(opts, option.WithBaseURL(e.baseURL))
	}
	client := openai.NewClient(opts...)

	transcription, err := client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  file,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription request: %w", err)
	}
	return transcription.Text, nil
}
