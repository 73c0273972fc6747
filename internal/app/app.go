// Package app is the composition root: it wires parsing, config,
// logging, engines, batch dispatch, and the live session into one
// process run and returns the exit code.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rbright/murmur/internal/args"
	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/batch"
	"github.com/rbright/murmur/internal/chat"
	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/doctor"
	"github.com/rbright/murmur/internal/logging"
	"github.com/rbright/murmur/internal/session"
	"github.com/rbright/murmur/internal/stt"
	"github.com/rbright/murmur/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Execute runs one invocation end to end. It never calls os.Exit.
func Execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, argv)
}

func (r Runner) Execute(ctx context.Context, argv []string) int {
	req, err := args.Parse(argv)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		args.Usage(r.Stderr)
		return 2
	}

	if req.Help {
		args.Usage(r.Stdout)
		return 0
	}
	if req.Version {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	overridePath, err := config.ResolvePath("")
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	loaded, err := config.Load(overridePath)
	if err != nil {
		// Startup load failure keeps the historical wording so a broken
		// override file reads the same in every entry path.
		fmt.Fprintf(r.Stdout, "Failed to load yaml file: %s.\n", overridePath)
		fmt.Fprintf(r.Stdout, "Error: %v\n", err)
		logger.Error("load config failed", "path", overridePath, "error", err.Error())
		return 1
	}
	for _, warning := range loaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", warning.Message)
		logger.Warn("config warning", "message", warning.Message)
	}

	config.Apply(loaded.Store, req)

	if req.Experimental {
		fmt.Fprintln(r.Stdout, "Experimental command line argument. Behavior is undefined.")
	}

	logger.Info("command start",
		"engine", req.Engine,
		"chat_provider", req.ChatProvider,
		"config", loaded.Path,
		"log", logRuntime.Path,
	)

	engine, err := stt.New(req.Engine, loaded.Store)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("engine setup failed", "engine", req.Engine, "error", err.Error())
		return 1
	}
	transcriber := stt.NewTranscriber(engine, loaded.Store)

	dispatcher := &batch.Dispatcher{
		Store:        loaded.Store,
		OverridePath: loaded.Path,
		Devices:      pulseLister{},
		Transcriber:  transcriber,
		Doctor:       doctor.Runner{Loaded: loaded},
		Logger:       logger,
		Stdout:       r.Stdout,
		Stderr:       r.Stderr,
	}

	outcome := dispatcher.Run(ctx, req)
	if !outcome.Continue {
		return outcome.Code
	}

	return r.runLive(ctx, req, loaded, transcriber, logger)
}

// runLive binds devices and drives the session until cancellation.
func (r Runner) runLive(ctx context.Context, req args.Request, loaded config.Loaded, transcriber *stt.Transcriber, logger *slog.Logger) int {
	recorder := audio.NewRecorder()
	audio.BindDevices(loaded.Store, recorder, r.Stdout)

	responder, err := chat.NewResponder(req.ChatProvider, loaded.Store)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("chat setup failed", "provider", req.ChatProvider, "error", err.Error())
		return 1
	}

	source, err := session.OpenStreams(ctx, recorder, loaded.Store)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("live capture setup failed", "error", err.Error())
		return 1
	}
	defer source.Close()

	fmt.Fprintln(r.Stdout, "Listening. Press Ctrl-C to stop.")
	logger.Info("live session started",
		"engine", transcriber.EngineName(),
		"mic_disabled", loaded.Store.Bool(config.SectionGeneral, config.KeyDisableMic),
		"speaker_disabled", loaded.Store.Bool(config.SectionGeneral, config.KeyDisableSpeaker),
		"suggestions", responder != nil,
	)

	var suggester session.Responder
	if responder != nil {
		suggester = responder
	}
	live := session.New(transcriber, suggester, logger, r.Stdout)
	if err := live.Run(ctx, source); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	logger.Info("live session stopped")
	return 0
}

// pulseLister adapts package audio to the dispatcher's lister port.
type pulseLister struct{}

func (pulseLister) ListDevices(ctx context.Context) (audio.Inventory, error) {
	return audio.ListDevices(ctx)
}
