package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/config"
)

// deepgramEngine posts audio to Deepgram's prerecorded listen endpoint.
type deepgramEngine struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func newDeepgramEngine(store *config.Store) *deepgramEngine {
	return &deepgramEngine{
		apiKey:     strings.TrimSpace(store.String(config.SectionDeepgram, config.KeyAPIKey)),
		baseURL:    strings.TrimRight(strings.TrimSpace(store.String(config.SectionDeepgram, config.KeyBaseURL)), "/"),
		model:      strings.TrimSpace(store.String(config.SectionDeepgram, config.KeyModel)),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (e *deepgramEngine) Name() string {
	return args.EngineDeepgram
}

func (e *deepgramEngine) Transcribe(ctx context.Context, path string) (string, error) {
	if e.apiKey == "" {
		return "", errors.New("Deepgram API key is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio file %q: %w", path, err)
	}

	query := url.Values{}
	query.Set("model", e.model)
	query.Set("smart_format", "true")
	endpoint := fmt.Sprintf("%s/v1/listen?%s", e.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+e.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reach deepgram: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read deepgram response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var decoded struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decode deepgram response: %w", err)
	}
	if len(decoded.Results.Channels) == 0 || len(decoded.Results.Channels[0].Alternatives) == 0 {
		return "", errors.New("deepgram response held no transcript alternatives")
	}
	return decoded.Results.Channels[0].Alternatives[0].Transcript, nil
}
