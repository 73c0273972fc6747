// Package doctor runs readiness diagnostics for config, credentials,
// the local whisper.cpp server, and the Pulse audio server.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Runner adapts Run for the batch dispatcher.
type Runner struct {
	Loaded config.Loaded
}

// Check renders the report and reports overall health.
func (r Runner) Check(ctx context.Context) (string, bool) {
	report := Run(ctx, r.Loaded)
	return report.String(), report.OK()
}

// Run executes environment and credential checks for a loaded store.
func Run(ctx context.Context, loaded config.Loaded) Report {
	st := loaded.Store

	checks := []Check{configCheck(loaded)}
	checks = append(checks, keyCheck("openai.key", st.String(config.SectionOpenAI, config.KeyAPIKey)))
	checks = append(checks, keyCheck("deepgram.key", st.String(config.SectionDeepgram, config.KeyAPIKey)))
	checks = append(checks, checkWhisperCppServer(ctx, st.String(config.SectionWhisperCpp, config.KeyServerURL)))
	checks = append(checks, checkPulse(ctx))

	return Report{Checks: checks}
}

func configCheck(loaded config.Loaded) Check {
	if loaded.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", loaded.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("no override at %q; using defaults", loaded.Path)}
}

// keyCheck validates that a credential is present without revealing it.
func keyCheck(name string, key string) Check {
	if strings.TrimSpace(key) != "" {
		return Check{Name: name, Pass: true, Message: "API key configured"}
	}
	return Check{Name: name, Pass: false, Message: "API key missing; save one with --save_api_key"}
}

// checkWhisperCppServer probes the configured server's health endpoint.
func checkWhisperCppServer(ctx context.Context, serverURL string) Check {
	base := strings.TrimSpace(serverURL)
	if base == "" {
		return Check{Name: "whispercpp.server", Pass: false, Message: "server_url is empty"}
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	url := strings.TrimRight(base, "/") + "/health"
	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return Check{Name: "whispercpp.server", Pass: false, Message: fmt.Sprintf("build request: %v", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Check{Name: "whispercpp.server", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: "whispercpp.server", Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url)}
	}
	return Check{Name: "whispercpp.server", Pass: true, Message: fmt.Sprintf("reachable at %s", url)}
}

// checkPulse runs a live enumeration to surface audio server issues.
func checkPulse(ctx context.Context) Check {
	inv, err := audio.ListDevices(ctx)
	if err != nil {
		return Check{Name: "audio.pulse", Pass: false, Message: err.Error()}
	}
	return Check{Name: "audio.pulse", Pass: true, Message: fmt.Sprintf("%d sources, %d sinks", len(inv.Sources), len(inv.Sinks))}
}
