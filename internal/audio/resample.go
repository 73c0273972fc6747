package audio

import (
	"encoding/binary"
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// filter tail flush; resampled silence on the end is harmless for STT
const tailPadSamples = 2048

// Resample16k converts PCM16 audio to 16kHz mono. Stereo input is
// averaged down to mono before rate conversion.
func Resample16k(pcm []byte, sampleRate int, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid source format %dHz/%dch", sampleRate, channels)
	}

	samples := pcmToFloat64(pcm)
	if channels > 1 {
		samples = downmixMono(samples, channels)
	}
	if sampleRate == CaptureSampleRate {
		return float64ToPCM(samples), nil
	}

	config := &resampling.Config{
		InputRate:  float64(sampleRate),
		OutputRate: float64(CaptureSampleRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	}
	resampler, err := resampling.New(config)
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	padded := append(samples, make([]float64, tailPadSamples)...)
	out, err := resampler.Process(padded)
	if err != nil {
		return nil, fmt.Errorf("resample audio: %w", err)
	}
	return float64ToPCM(out), nil
}

func pcmToFloat64(pcm []byte) []float64 {
	n := len(pcm) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sample := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		out[i] = float64(sample) / 32768.0
	}
	return out
}

func float64ToPCM(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		sample := int16(s * 32767.0)
		if s > 1.0 {
			sample = 32767
		} else if s < -1.0 {
			sample = -32768
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(sample))
	}
	return out
}

func downmixMono(samples []float64, channels int) []float64 {
	frames := len(samples) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += samples[i*channels+ch]
		}
		out[i] = sum / float64(channels)
	}
	return out
}
