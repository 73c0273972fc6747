// Package stt turns audio files into text through one of the supported
// speech to text engines.
package stt

import (
	"context"
	"fmt"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/config"
)

// Engine converts one audio file into raw transcript text.
type Engine interface {
	// Name reports the engine selector this engine serves.
	Name() string
	// Transcribe recognizes speech in the file at path.
	Transcribe(ctx context.Context, path string) (string, error)
}

// New selects the engine implementation for name, pulling credentials
// and endpoints from the store.
func New(name string, store *config.Store) (Engine, error) {
	switch name {
	case args.EngineWhisper:
		return newWhisperEngine(store), nil
	case args.EngineWhisperCpp:
		return newWhisperCppEngine(store), nil
	case args.EngineDeepgram:
		return newDeepgramEngine(store), nil
	default:
		return nil, fmt.Errorf("unknown speech to text engine %q", name)
	}
}
