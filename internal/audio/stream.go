package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// StreamKind labels which side of the conversation a stream hears.
type StreamKind string

const (
	KindMic     StreamKind = "mic"
	KindSpeaker StreamKind = "speaker"
)

// Recorder tracks which devices murmur records from. An index of -1
// means the Pulse default endpoint.
type Recorder struct {
	micIndex     int
	speakerIndex int
}

// NewRecorder returns a recorder bound to the default devices.
func NewRecorder() *Recorder {
	return &Recorder{micIndex: -1, speakerIndex: -1}
}

// SetMicDevice binds microphone capture to a listed source position.
func (r *Recorder) SetMicDevice(index int) { r.micIndex = index }

// SetSpeakerDevice binds speaker capture to a listed sink position.
func (r *Recorder) SetSpeakerDevice(index int) { r.speakerIndex = index }

// MicDevice reports the bound source position, -1 when unbound.
func (r *Recorder) MicDevice() int { return r.micIndex }

// SpeakerDevice reports the bound sink position, -1 when unbound.
func (r *Recorder) SpeakerDevice() int { return r.speakerIndex }

// StartMic opens a 16kHz mono s16 capture stream from the bound
// source, or from the Pulse default source when unbound.
func (r *Recorder) StartMic(ctx context.Context) (*Stream, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	inv, err := listDevices(client)
	if err != nil {
		client.Close()
		return nil, err
	}

	device, err := pickDevice(inv.Sources, r.micIndex, "source")
	if err != nil {
		client.Close()
		return nil, err
	}

	source, err := client.SourceByID(device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", device.ID, err)
	}

	return startStream(ctx, client, KindMic, device, source)
}

// StartSpeaker opens a capture stream on the monitor source of the
// bound sink, or of the Pulse default sink when unbound.
func (r *Recorder) StartSpeaker(ctx context.Context) (*Stream, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	inv, err := listDevices(client)
	if err != nil {
		client.Close()
		return nil, err
	}

	device, err := pickDevice(inv.Sinks, r.speakerIndex, "sink")
	if err != nil {
		client.Close()
		return nil, err
	}
	if device.Monitor == "" {
		client.Close()
		return nil, fmt.Errorf("sink %q has no monitor source", device.ID)
	}

	source, err := client.SourceByID(device.Monitor)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve monitor source %q: %w", device.Monitor, err)
	}

	return startStream(ctx, client, KindSpeaker, device, source)
}

// pickDevice resolves an explicit enumeration position, or the default
// entry when index is -1.
func pickDevice(devices []Device, index int, kind string) (Device, error) {
	if index >= 0 {
		if index >= len(devices) {
			return Device{}, fmt.Errorf("%s index %d is out of range (%d devices)", kind, index, len(devices))
		}
		return devices[index], nil
	}
	for _, dev := range devices {
		if dev.Default {
			return dev, nil
		}
	}
	return Device{}, fmt.Errorf("no default %s available", kind)
}

func startStream(ctx context.Context, client *pulse.Client, kind StreamKind, device Device, source *pulse.Source) (*Stream, error) {
	s := &Stream{
		kind:   kind,
		device: device,
		client: client,
		chunks: make(chan []byte, 128),
		stopCh: make(chan struct{}),
	}

	writer := pulse.NewWriter(writerFunc(s.onPCM), pulseproto.FormatInt16LE)
	record, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(CaptureSampleRate),
		pulse.RecordBufferFragmentSize(chunkSizeBytes),
		pulse.RecordMediaName("murmur capture"),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}

	s.stream = record
	record.Start()

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	return s, nil
}

// Stream delivers fixed-size PCM chunks from one Pulse source.
type Stream struct {
	kind   StreamKind
	device Device

	client *pulse.Client
	stream *pulse.RecordStream

	chunks chan []byte
	stopCh chan struct{}

	mu      sync.Mutex
	pending []byte
	stopped bool

	inflight sync.WaitGroup
	bytes    atomic.Int64
}

// Kind reports which conversation side this stream hears.
func (s *Stream) Kind() StreamKind {
	return s.kind
}

// Device returns capture metadata for logging and diagnostics.
func (s *Stream) Device() Device {
	return s.device
}

// Chunks returns the PCM stream as fixed-size byte slices.
func (s *Stream) Chunks() <-chan []byte {
	return s.chunks
}

// BytesCaptured reports total bytes accepted from Pulse.
func (s *Stream) BytesCaptured() int64 {
	return s.bytes.Load()
}

// Stop halts the stream, flushes residual PCM, and closes Chunks
// exactly once.
func (s *Stream) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	if s.client != nil {
		s.client.Close()
	}

	s.inflight.Wait()

	s.mu.Lock()
	pending := append([]byte(nil), s.pending...)
	s.pending = nil
	s.mu.Unlock()

	if len(pending) > 0 {
		select {
		case s.chunks <- pending:
		default:
		}
	}

	close(s.chunks)
	return nil
}

// Close is a convenience alias for Stop.
func (s *Stream) Close() {
	_ = s.Stop()
}

// onPCM receives raw Pulse frames and emits chunkSizeBytes slices.
func (s *Stream) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	select {
	case <-s.stopCh:
		return 0, io.EOF
	default:
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0, io.EOF
	}
	// Guard Add under the same mutex as s.stopped to avoid Add/Wait races.
	s.inflight.Add(1)

	s.pending = append(s.pending, buffer...)
	chunks := make([][]byte, 0, len(s.pending)/chunkSizeBytes)
	for len(s.pending) >= chunkSizeBytes {
		chunk := make([]byte, chunkSizeBytes)
		copy(chunk, s.pending[:chunkSizeBytes])
		s.pending = s.pending[chunkSizeBytes:]
		chunks = append(chunks, chunk)
	}
	s.mu.Unlock()
	defer s.inflight.Done()

	s.bytes.Add(int64(len(buffer)))

	for _, chunk := range chunks {
		select {
		case <-s.stopCh:
			return 0, io.EOF
		case s.chunks <- chunk:
		}
	}

	return len(buffer), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
