package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/config"
)

// windowSeconds fixes how much speech accumulates before inference.
const windowSeconds = 5

// Window is one fixed-duration run of PCM from a single side.
type Window struct {
	Kind audio.StreamKind
	PCM  []byte
}

// Source yields capture windows until it is closed.
type Source interface {
	Windows() <-chan Window
	Close() error
}

// streamSource fans chunked capture from live streams into windows.
type streamSource struct {
	windows chan Window
	streams []*audio.Stream
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// OpenStreams starts capture for every enabled side and returns a
// windowing source. Disabling both sides is a configuration error.
func OpenStreams(ctx context.Context, recorder *audio.Recorder, st *config.Store) (Source, error) {
	disableMic := st.Bool(config.SectionGeneral, config.KeyDisableMic)
	disableSpeaker := st.Bool(config.SectionGeneral, config.KeyDisableSpeaker)
	if disableMic && disableSpeaker {
		return nil, errors.New("both microphone and speaker capture are disabled; nothing to transcribe")
	}

	var streams []*audio.Stream
	if !disableMic {
		mic, err := recorder.StartMic(ctx)
		if err != nil {
			return nil, fmt.Errorf("start microphone capture: %w", err)
		}
		streams = append(streams, mic)
	}
	if !disableSpeaker {
		speaker, err := recorder.StartSpeaker(ctx)
		if err != nil {
			for _, stream := range streams {
				_ = stream.Stop()
			}
			return nil, fmt.Errorf("start speaker capture: %w", err)
		}
		streams = append(streams, speaker)
	}

	source := &streamSource{
		windows: make(chan Window, 4),
		streams: streams,
		done:    make(chan struct{}),
	}
	for _, stream := range streams {
		source.wg.Add(1)
		go source.collect(stream.Kind(), stream.Chunks())
	}
	go func() {
		source.wg.Wait()
		close(source.windows)
	}()
	return source, nil
}

func (s *streamSource) Windows() <-chan Window {
	return s.windows
}

// Close stops every stream and unblocks the collectors. Idempotent.
func (s *streamSource) Close() error {
	s.once.Do(func() {
		close(s.done)
		for _, stream := range s.streams {
			_ = stream.Stop()
		}
	})
	return nil
}

// collect groups fixed-size chunks into windowSeconds windows and
// flushes the final partial window when the stream closes.
func (s *streamSource) collect(kind audio.StreamKind, chunks <-chan []byte) {
	defer s.wg.Done()

	windowBytes := windowSeconds * audio.CaptureSampleRate * 2
	var pcm []byte
	for chunk := range chunks {
		pcm = append(pcm, chunk...)
		if len(pcm) < windowBytes {
			continue
		}
		s.emit(Window{Kind: kind, PCM: pcm})
		pcm = nil
	}
	if len(pcm) > 0 {
		s.emit(Window{Kind: kind, PCM: pcm})
	}
}

func (s *streamSource) emit(window Window) {
	select {
	case s.windows <- window:
	case <-s.done:
	}
}
