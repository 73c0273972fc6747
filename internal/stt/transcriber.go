package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/transcript"
)

// Transcriber runs the file to text pipeline for one engine: sample
// rate conversion when the engine needs it, inference, then transcript
// cleanup.
type Transcriber struct {
	engine Engine
	opts   transcript.Options
}

// NewTranscriber wires an engine with post-processing options from the
// store.
func NewTranscriber(engine Engine, store *config.Store) *Transcriber {
	return &Transcriber{
		engine: engine,
		opts: transcript.Options{
			CapitalizeSentences: store.Bool(config.SectionTranscript, config.KeyCapitalizeSentences),
		},
	}
}

// EngineName reports which engine this transcriber drives.
func (t *Transcriber) EngineName() string {
	return t.engine.Name()
}

// Transcribe recognizes speech in the file at path and returns the
// cleaned text. whisper.cpp only accepts 16kHz mono input, so for that
// engine the file is converted first.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	if t.engine.Name() == args.EngineWhisperCpp {
		converted, err := t.ConvertTo16kHz(path)
		if err != nil {
			return "", err
		}
		defer os.Remove(converted)
		path = converted
	}

	raw, err := t.engine.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}
	return transcript.Normalize(raw, t.opts), nil
}

// ConvertTo16kHz rewrites the audio file as 16kHz mono PCM under the
// temp directory and returns the new path.
func (t *Transcriber) ConvertTo16kHz(path string) (string, error) {
	wav, err := audio.ReadWAVFile(path)
	if err != nil {
		return "", err
	}
	pcm, err := audio.Resample16k(wav.PCM, wav.SampleRate, wav.Channels)
	if err != nil {
		return "", err
	}

	converted := filepath.Join(os.TempDir(), fmt.Sprintf("murmur-%s.wav", uuid.NewString()))
	if err := audio.WriteWAVFile(converted, pcm, audio.CaptureSampleRate, 1); err != nil {
		return "", err
	}
	return converted, nil
}
