// Package batch dispatches one-shot command line actions. At most one
// action runs per invocation, picked in fixed priority order; every
// action is terminal except the fallthrough into the live session.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/timing"
)

// DefaultOutputFile receives transcriptions when --output_file is not
// given.
const DefaultOutputFile = "transcription.txt"

// State labels which one-shot action a run resolved to.
type State string

const (
	StateListDevices State = "list_devices"
	StateSaveKey     State = "save_api_key"
	StateTranscribe  State = "transcribe"
	StateDoctor      State = "doctor"
	StateFallthrough State = "fallthrough"
)

// Outcome reports what the dispatcher did. Terminal outcomes carry the
// process exit code; a fallthrough outcome hands control back to the
// caller with Continue set.
type Outcome struct {
	State    State
	Continue bool
	Code     int
}

// DeviceLister enumerates the machine's audio endpoints.
type DeviceLister interface {
	ListDevices(ctx context.Context) (audio.Inventory, error)
}

// FileTranscriber turns one audio file into cleaned transcript text.
type FileTranscriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// HealthChecker renders the doctor report.
type HealthChecker interface {
	Check(ctx context.Context) (report string, ok bool)
}

// Dispatcher owns the one-shot actions for a single invocation. The
// composition root wires every field; Run never calls os.Exit.
type Dispatcher struct {
	Store        *config.Store
	OverridePath string
	Devices      DeviceLister
	Transcriber  FileTranscriber
	Doctor       HealthChecker
	Logger       *slog.Logger
	Stdout       io.Writer
	Stderr       io.Writer
}

// Run resolves and executes at most one batch action. Priority:
// list devices, save API key, transcribe, doctor. Anything else falls
// through to the live session.
func (d *Dispatcher) Run(ctx context.Context, req args.Request) Outcome {
	switch {
	case req.ListDevices:
		return Outcome{State: StateListDevices, Code: d.listDevices(ctx)}
	case req.SaveAPIKey != "":
		return Outcome{State: StateSaveKey, Code: d.saveAPIKey(req.SaveAPIKey)}
	case req.Transcribe != "":
		return Outcome{State: StateTranscribe, Code: d.transcribe(ctx, req)}
	case req.Doctor:
		return Outcome{State: StateDoctor, Code: d.doctor(ctx)}
	default:
		return Outcome{State: StateFallthrough, Continue: true}
	}
}

func (d *Dispatcher) listDevices(ctx context.Context) int {
	inv, err := d.Devices.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(d.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(d.Stdout, "Input devices (sources):")
	printDevices(d.Stdout, inv.Sources)
	fmt.Fprintln(d.Stdout)
	fmt.Fprintln(d.Stdout, "Output devices (sinks):")
	printDevices(d.Stdout, inv.Sinks)

	if d.Logger != nil {
		d.Logger.Info("listed audio devices", "sources", len(inv.Sources), "sinks", len(inv.Sinks))
	}
	return 0
}

func printDevices(out io.Writer, devices []audio.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(out, "  none found")
		return
	}
	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			out,
			"%s [%d] id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.Index,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}
}

// saveAPIKey persists the key against a fresh load of the override
// file, so a transient --api_key applied to the in-memory store can
// never leak into the persisted layer.
func (d *Dispatcher) saveAPIKey(key string) int {
	loaded, err := config.Load(d.OverridePath)
	if err != nil {
		fmt.Fprintf(d.Stdout, "Failed to load yaml file: %s.\n", d.OverridePath)
		fmt.Fprintf(d.Stdout, "Error: %v\n", err)
		return 1
	}

	loaded.Store.Set(config.SectionOpenAI, config.KeyAPIKey, key)
	if err := loaded.Store.SaveOverride(loaded.Path); err != nil {
		fmt.Fprintf(d.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(d.Stdout, "Saved API Key to %s\n", loaded.Path)
	if d.Logger != nil {
		d.Logger.Info("api key saved", "path", loaded.Path)
	}
	return 0
}

func (d *Dispatcher) transcribe(ctx context.Context, req args.Request) int {
	input := req.Transcribe
	output := req.OutputFile
	if output == "" {
		output = DefaultOutputFile
	}

	span := timing.Start("Transcription", timing.WithScreen(d.Stdout))
	defer span.Stop()

	info, err := os.Stat(input)
	if err != nil {
		d.transcribeFailed(input, err)
		return 1
	}

	fmt.Fprintf(d.Stdout, "Converting the audio file %s to text.\n", input)
	fmt.Fprintf(d.Stdout, "%s file size %s.\n", input, humanize.Bytes(uint64(info.Size())))
	fmt.Fprintf(d.Stdout, "Text output will be produced in %s.\n", output)

	text, err := d.Transcriber.Transcribe(ctx, input)
	if err != nil || strings.TrimSpace(text) == "" {
		d.transcribeFailed(input, err)
		return 1
	}

	if err := os.WriteFile(output, []byte(text+"\n"), 0o644); err != nil {
		fmt.Fprintf(d.Stderr, "error: write transcription output %q: %v\n", output, err)
		return 1
	}

	fmt.Fprintln(d.Stdout, "Complete!")
	return 0
}

func (d *Dispatcher) transcribeFailed(input string, err error) {
	if d.Logger != nil {
		if err != nil {
			d.Logger.Error("transcription failed", "input", input, "error", err.Error())
		} else {
			d.Logger.Error("transcription produced no text", "input", input)
		}
	}
	fmt.Fprintln(d.Stdout, "Error during Transcription!")
	fmt.Fprintf(d.Stdout, "Please ensure %s is an audio file.\n", input)
}

func (d *Dispatcher) doctor(ctx context.Context) int {
	report, ok := d.Doctor.Check(ctx)
	fmt.Fprintln(d.Stdout, report)
	if ok {
		return 0
	}
	return 1
}
