package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteWAVHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	pcm := []byte{0x01, 0x00, 0xFF, 0x7F}
	require.NoError(t, WriteWAV(&buf, pcm, 16000, 1))

	data := buf.Bytes()
	require.Len(t, data, 44+len(pcm))

	require.Equal(t, "RIFF", string(data[0:4]))
	require.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(data[4:8]))
	require.Equal(t, "WAVE", string(data[8:12]))
	require.Equal(t, "fmt ", string(data[12:16]))
	require.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	require.Equal(t, uint32(16000), binary.LittleEndian.Uint32(data[24:28]))
	require.Equal(t, uint32(32000), binary.LittleEndian.Uint32(data[28:32]))
	require.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[32:34]))
	require.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))
	require.Equal(t, "data", string(data[36:40]))
	require.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(data[40:44]))
	require.Equal(t, pcm, data[44:])
}

func TestWAVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	pcm := make([]byte, 320)
	for i := range pcm {
		pcm[i] = byte(i)
	}

	require.NoError(t, WriteWAVFile(path, pcm, 44100, 2))

	decoded, err := ReadWAVFile(path)
	require.NoError(t, err)
	require.Equal(t, 44100, decoded.SampleRate)
	require.Equal(t, 2, decoded.Channels)
	require.Equal(t, pcm, decoded.PCM)
}

func TestWAVDuration(t *testing.T) {
	clip := WAV{SampleRate: 16000, Channels: 1, PCM: make([]byte, 32000)}
	require.InDelta(t, 1.0, clip.Duration(), 1e-9)
	require.Zero(t, WAV{}.Duration())
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{name: "empty", data: nil, wantErr: "not a RIFF/WAVE file"},
		{name: "wrong magic", data: []byte("MP3 data here, not what you want"), wantErr: "not a RIFF/WAVE file"},
		{name: "truncated chunk", data: truncatedWAV(t), wantErr: "truncated WAV chunk"},
		{name: "no data chunk", data: []byte("RIFF\x04\x00\x00\x00WAVE"), wantErr: "missing fmt or data chunk"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeWAV(tc.data)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDecodeWAVRejectsNonPCM16(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWAV(&buf, []byte{0, 0}, 8000, 1))
	data := buf.Bytes()

	// Flip the audio format tag to IEEE float.
	binary.LittleEndian.PutUint16(data[20:22], 3)
	_, err := DecodeWAV(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported WAV format")
}

func TestReadWAVFileMissing(t *testing.T) {
	_, err := ReadWAVFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read wav")
}

func truncatedWAV(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteWAV(&buf, make([]byte, 64), 16000, 1))
	return buf.Bytes()[:50]
}

func TestWriteWAVFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, WriteWAVFile(path, []byte{0, 0}, 16000, 1))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
