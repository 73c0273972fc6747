package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// WAV holds decoded PCM16 audio.
type WAV struct {
	SampleRate int
	Channels   int
	PCM        []byte
}

// Duration reports the clip length in seconds.
func (w WAV) Duration() float64 {
	if w.SampleRate <= 0 || w.Channels <= 0 {
		return 0
	}
	frames := len(w.PCM) / (2 * w.Channels)
	return float64(frames) / float64(w.SampleRate)
}

// WriteWAV writes raw little-endian PCM16 bytes with a minimal WAV header.
func WriteWAV(w io.Writer, pcm []byte, sampleRate int, channels int) error {
	if channels <= 0 {
		channels = 1
	}
	const bitsPerSample = 16
	byteRate := sampleRate * channels * (bitsPerSample / 8)
	blockAlign := channels * (bitsPerSample / 8)

	chunkSize := uint32(36 + len(pcm))
	subChunk2Size := uint32(len(pcm))

	header := make([]byte, 44)
	copy(header[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:8], chunkSize)
	copy(header[8:12], []byte("WAVE"))
	copy(header[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:44], subChunk2Size)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}

// WriteWAVFile writes a PCM16 WAV file at path.
func WriteWAVFile(path string, pcm []byte, sampleRate int, channels int) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create wav %q: %w", path, err)
	}
	defer file.Close()

	if err := WriteWAV(file, pcm, sampleRate, channels); err != nil {
		return fmt.Errorf("write wav %q: %w", path, err)
	}
	return nil
}

// ReadWAVFile decodes a PCM16 WAV file.
func ReadWAVFile(path string) (WAV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WAV{}, fmt.Errorf("read wav %q: %w", path, err)
	}
	decoded, err := DecodeWAV(data)
	if err != nil {
		return WAV{}, fmt.Errorf("decode wav %q: %w", path, err)
	}
	return decoded, nil
}

// DecodeWAV walks RIFF chunks until it has both format and data.
// Only 16-bit PCM is accepted.
func DecodeWAV(data []byte) (WAV, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAV{}, errors.New("not a RIFF/WAVE file")
	}

	var out WAV
	var haveFmt, haveData bool
	var bits int

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if size < 0 || offset+size > len(data) {
			return WAV{}, errors.New("truncated WAV chunk")
		}
		body := data[offset : offset+size]

		switch id {
		case "fmt ":
			if size < 16 {
				return WAV{}, errors.New("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			if format != 1 {
				return WAV{}, fmt.Errorf("unsupported WAV format %d; expected PCM", format)
			}
			out.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			out.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			out.PCM = append([]byte(nil), body...)
			haveData = true
		}

		offset += size
		if size%2 == 1 {
			// RIFF chunks are word aligned.
			offset++
		}
	}

	if !haveFmt || !haveData {
		return WAV{}, errors.New("missing fmt or data chunk")
	}
	if bits != 16 {
		return WAV{}, fmt.Errorf("unsupported bit depth %d; expected 16", bits)
	}
	if out.Channels <= 0 || out.SampleRate <= 0 {
		return WAV{}, errors.New("invalid WAV header values")
	}
	return out, nil
}
