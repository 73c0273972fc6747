package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/config"
)

// whisperCppEngine uploads audio to a local whisper.cpp server.
type whisperCppEngine struct {
	serverURL  string
	httpClient *http.Client
}

func newWhisperCppEngine(store *config.Store) *whisperCppEngine {
	return &whisperCppEngine{
		serverURL:  strings.TrimRight(strings.TrimSpace(store.String(config.SectionWhisperCpp, config.KeyServerURL)), "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (e *whisperCppEngine) Name() string {
	return args.EngineWhisperCpp
}

func (e *whisperCppEngine) Transcribe(ctx context.Context, path string) (string, error) {
	if e.serverURL == "" {
		return "", errors.New("whisper.cpp server_url is not configured")
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file %q: %w", path, err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read audio file %q: %w", path, err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.serverURL+"/inference", body)
	if err != nil {
		return "", fmt.Errorf("create whisper.cpp request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reach whisper.cpp server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read whisper.cpp response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper.cpp server returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decode whisper.cpp response: %w", err)
	}
	return decoded.Text, nil
}
