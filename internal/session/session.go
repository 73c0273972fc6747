// Package session runs the live loop: capture windows from the
// enabled streams, transcribe each one, and print the conversation.
package session

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/timing"
)

// Transcriber converts one captured window file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Responder suggests a reply to what the other side just said.
type Responder interface {
	Suggest(ctx context.Context, transcript string) (string, error)
}

// Session consumes capture windows until its source closes.
type Session struct {
	transcriber Transcriber
	responder   Responder
	logger      *slog.Logger
	stdout      io.Writer
}

// New builds a session. A nil responder disables reply suggestions.
func New(transcriber Transcriber, responder Responder, logger *slog.Logger, stdout io.Writer) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Session{
		transcriber: transcriber,
		responder:   responder,
		logger:      logger,
		stdout:      stdout,
	}
}

// Run processes windows until ctx is cancelled or the source closes.
// Cancellation is the normal way out and returns nil.
func (s *Session) Run(ctx context.Context, source Source) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case window, ok := <-source.Windows():
			if !ok {
				return nil
			}
			s.handleWindow(ctx, window)
		}
	}
}

// handleWindow transcribes one window and prints what it heard. A
// failed window is logged and skipped; the loop keeps listening.
func (s *Session) handleWindow(ctx context.Context, window Window) {
	if !hasSignal(window.PCM) {
		return
	}

	span := timing.Start(fmt.Sprintf("%s window", window.Kind), timing.WithLogger(s.logger))
	defer span.Stop()

	path, err := s.writeWindow(window)
	if err != nil {
		s.logger.Error("write capture window", "kind", string(window.Kind), "error", err)
		return
	}
	defer os.Remove(path)

	text, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		s.logger.Error("window transcription failed", "kind", string(window.Kind), "error", err)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	fmt.Fprintf(s.stdout, "%s: %s\n", sideLabel(window.Kind), text)
	s.logger.Info("window transcribed", "kind", string(window.Kind), "chars", len(text))

	if s.responder == nil || window.Kind != audio.KindSpeaker {
		return
	}
	reply, err := s.responder.Suggest(ctx, text)
	if err != nil {
		s.logger.Error("reply suggestion failed", "error", err)
		return
	}
	if reply != "" {
		fmt.Fprintf(s.stdout, "assistant: %s\n", reply)
	}
}

// writeWindow persists a window as a temp WAV for the engine.
func (s *Session) writeWindow(window Window) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("murmur-%s-%s.wav", window.Kind, uuid.NewString()))
	if err := audio.WriteWAVFile(path, window.PCM, audio.CaptureSampleRate, 1); err != nil {
		return "", err
	}
	return path, nil
}

func sideLabel(kind audio.StreamKind) string {
	if kind == audio.KindSpeaker {
		return "speaker"
	}
	return "you"
}

// signalThreshold is the peak amplitude below which a window counts as
// silence and skips inference.
const signalThreshold = 500

func hasSignal(pcm []byte) bool {
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		if sample > signalThreshold || sample < -signalThreshold {
			return true
		}
	}
	return false
}
