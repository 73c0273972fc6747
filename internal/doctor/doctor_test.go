package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/murmur/internal/config"
)

func TestReportOK(t *testing.T) {
	healthy := Report{Checks: []Check{
		{Name: "config", Pass: true, Message: "loaded"},
		{Name: "openai.key", Pass: true, Message: "API key configured"},
	}}
	require.True(t, healthy.OK())

	broken := Report{Checks: []Check{
		{Name: "config", Pass: true, Message: "loaded"},
		{Name: "audio.pulse", Pass: false, Message: "connect: no such file"},
	}}
	require.False(t, broken.OK())
}

func TestReportString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "config", Pass: true, Message: "loaded \"/tmp/override.yaml\""},
		{Name: "deepgram.key", Pass: false, Message: "API key missing; save one with --save_api_key"},
	}}

	want := "[OK] config: loaded \"/tmp/override.yaml\"\n" +
		"[FAIL] deepgram.key: API key missing; save one with --save_api_key"
	require.Equal(t, want, report.String())
}

func TestKeyCheck(t *testing.T) {
	present := keyCheck("openai.key", "sk-test")
	require.True(t, present.Pass)
	require.Equal(t, "API key configured", present.Message)

	missing := keyCheck("deepgram.key", "   ")
	require.False(t, missing.Pass)
	require.Contains(t, missing.Message, "API key missing")
}

func TestCheckWhisperCppServerHealthy(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	check := checkWhisperCppServer(context.Background(), server.URL)
	require.True(t, check.Pass)
	require.Equal(t, "/health", gotPath)
	require.Contains(t, check.Message, "reachable")
}

func TestCheckWhisperCppServerAddsScheme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bare := strings.TrimPrefix(server.URL, "http://")
	check := checkWhisperCppServer(context.Background(), bare)
	require.True(t, check.Pass)
}

func TestCheckWhisperCppServerUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	check := checkWhisperCppServer(context.Background(), server.URL)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "HTTP 503")
}

func TestCheckWhisperCppServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	check := checkWhisperCppServer(context.Background(), serverURL)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "request failed")
}

func TestCheckWhisperCppServerEmptyURL(t *testing.T) {
	check := checkWhisperCppServer(context.Background(), "  ")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "server_url is empty")
}

func TestCheckPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	check := checkPulse(context.Background())
	require.False(t, check.Pass)
	require.NotEmpty(t, check.Message)
}

func TestRunReportsDefaults(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	health := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer health.Close()

	st := config.NewStore()
	st.Set(config.SectionWhisperCpp, config.KeyServerURL, health.URL)
	loaded := config.Loaded{Path: "/tmp/override.yaml", Store: st, Exists: false}

	report := Run(context.Background(), loaded)
	require.Len(t, report.Checks, 5)
	require.False(t, report.OK())

	byName := map[string]Check{}
	for _, check := range report.Checks {
		byName[check.Name] = check
	}

	require.True(t, byName["config"].Pass)
	require.Contains(t, byName["config"].Message, "using defaults")
	require.False(t, byName["openai.key"].Pass)
	require.False(t, byName["deepgram.key"].Pass)
	require.True(t, byName["whispercpp.server"].Pass)
	require.False(t, byName["audio.pulse"].Pass)
}

func TestRunReportsLoadedOverride(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	st := config.NewStore()
	st.Set(config.SectionOpenAI, config.KeyAPIKey, "sk-test")
	loaded := config.Loaded{Path: "/home/user/.config/murmur/override.yaml", Store: st, Exists: true}

	report := Run(context.Background(), loaded)

	byName := map[string]Check{}
	for _, check := range report.Checks {
		byName[check.Name] = check
	}

	require.True(t, byName["config"].Pass)
	require.Contains(t, byName["config"].Message, "loaded")
	require.True(t, byName["openai.key"].Pass)
}

func TestRunnerCheck(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	runner := Runner{Loaded: config.Loaded{Path: "/tmp/override.yaml", Store: config.NewStore()}}
	output, ok := runner.Check(context.Background())
	require.False(t, ok)
	require.Contains(t, output, "[FAIL]")
	require.Contains(t, output, "audio.pulse")
}
