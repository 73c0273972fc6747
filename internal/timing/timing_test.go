package timing

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fakeClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestStopReportsElapsedToScreen(t *testing.T) {
	base := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	var out bytes.Buffer

	span := Start("Transcription", WithScreen(&out), withClock(fakeClock(base, base.Add(1500*time.Millisecond))))
	elapsed := span.Stop()

	require.Equal(t, 1500*time.Millisecond, elapsed)
	require.Equal(t, "Transcription took 1.5s\n", out.String())
}

func TestStopReportsOnlyOnce(t *testing.T) {
	base := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	var out bytes.Buffer

	span := Start("Transcription", WithScreen(&out), withClock(fakeClock(base, base.Add(time.Second))))
	first := span.Stop()
	second := span.Stop()

	require.Equal(t, first, second)
	require.Equal(t, "Transcription took 1s\n", out.String())
}

func TestStopWritesStructuredLog(t *testing.T) {
	base := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	var logged bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logged, nil))

	span := Start("window", WithLogger(logger), withClock(fakeClock(base, base.Add(250*time.Millisecond))))
	span.Stop()

	require.Contains(t, logged.String(), `"msg":"operation timed"`)
	require.Contains(t, logged.String(), `"name":"window"`)
	require.Contains(t, logged.String(), `"elapsed":"250ms"`)
}

func TestStopWithoutSinksIsQuiet(t *testing.T) {
	span := Start("quiet")
	require.GreaterOrEqual(t, span.Stop(), time.Duration(0))
}
