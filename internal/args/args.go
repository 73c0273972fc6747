// Package args resolves command line arguments into an immutable
// Request snapshot. Parsing is pure: no side effects, no exits.
package args

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
)

// Engines selectable via --speech_to_text.
const (
	EngineWhisper    = "whisper"
	EngineWhisperCpp = "whisper.cpp"
	EngineDeepgram   = "deepgram"
)

// Chat providers selectable via --chat-inference-provider.
const (
	ProviderOpenAI   = "openai"
	ProviderTogether = "together"
)

// ModelTiers are the accepted --model values, smallest to largest.
var ModelTiers = []string{
	"tiny", "base", "small", "medium",
	"large-v1", "large-v2", "large-v3", "large",
}

// OptionalIndex carries an integer flag value together with whether the
// flag appeared at all. Zero is a valid device index, so presence
// cannot ride on the value itself.
type OptionalIndex struct {
	Value int
	Set   bool
}

// Request is one invocation's resolved options. String fields use the
// empty string as their unset sentinel; Model stays empty when the
// flag is absent so downstream policy can tell absent from "base".
type Request struct {
	API          bool
	Experimental bool
	Engine       string
	ChatProvider string
	APIKey       string
	SaveAPIKey   string
	Transcribe   string
	OutputFile   string
	Model        string
	ListDevices  bool
	MicIndex     OptionalIndex
	SpeakerIndex OptionalIndex

	DisableMic     bool
	DisableSpeaker bool

	Doctor  bool
	Version bool
	Help    bool
}

type indexValue struct {
	target *OptionalIndex
}

func (v *indexValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("expected an integer device index, got %q", s)
	}
	v.target.Value = n
	v.target.Set = true
	return nil
}

func (v *indexValue) String() string {
	if v.target == nil || !v.target.Set {
		return ""
	}
	return strconv.Itoa(v.target.Value)
}

func newApplication(req *Request) *kingpin.Application {
	app := kingpin.New("murmur", "Transcribe speech from microphone, speaker, or audio files.")
	app.HelpFlag.Short('h')
	app.Terminate(nil)
	app.UsageWriter(io.Discard)
	app.ErrorWriter(io.Discard)

	app.Flag("api", "Use the hosted API for speech to text.").Short('a').BoolVar(&req.API)
	app.Flag("experimental", "Experimental command line argument. Behavior is undefined.").Short('e').BoolVar(&req.Experimental)
	app.Flag("speech_to_text", "Speech to text engine.").Default(EngineWhisper).EnumVar(&req.Engine, EngineWhisper, EngineWhisperCpp, EngineDeepgram)
	app.Flag("chat-inference-provider", "Chat inference provider.").Short('c').Default(ProviderOpenAI).EnumVar(&req.ChatProvider, ProviderOpenAI, ProviderTogether)
	app.Flag("api_key", "API key to use for this run only.").Short('k').StringVar(&req.APIKey)
	app.Flag("save_api_key", "Save an API key to the override file and exit.").StringVar(&req.SaveAPIKey)
	app.Flag("transcribe", "Transcribe an audio file and exit.").Short('t').StringVar(&req.Transcribe)
	app.Flag("output_file", "Destination file for --transcribe output.").Short('o').StringVar(&req.OutputFile)
	app.Flag("model", "Local transcription model tier.").Short('m').EnumVar(&req.Model, ModelTiers...)
	app.Flag("list_devices", "List all audio drivers and devices on this machine.").Short('l').BoolVar(&req.ListDevices)
	app.Flag("mic_device_index", "Input device index to record from.").SetValue(&indexValue{target: &req.MicIndex})
	app.Flag("speaker_device_index", "Output device index to monitor.").SetValue(&indexValue{target: &req.SpeakerIndex})
	app.Flag("disable_mic", "Do not capture the microphone.").BoolVar(&req.DisableMic)
	app.Flag("disable_speaker", "Do not capture speaker output.").BoolVar(&req.DisableSpeaker)
	app.Flag("doctor", "Run configuration and environment checks and exit.").BoolVar(&req.Doctor)
	app.Flag("version", "Show version information.").BoolVar(&req.Version)

	return app
}

// Parse resolves argv into a Request. Help anywhere in argv wins and
// short-circuits flag validation, matching conventional CLI behavior.
func Parse(argv []string) (Request, error) {
	if helpRequested(argv) {
		return Request{Help: true}, nil
	}

	var req Request
	app := newApplication(&req)
	if _, err := app.Parse(argv); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Usage renders the top-level usage text to w.
func Usage(w io.Writer) {
	var req Request
	app := newApplication(&req)
	app.UsageWriter(w)
	app.Usage(nil)
}

func helpRequested(argv []string) bool {
	for _, arg := range argv {
		if arg == "--" {
			return false
		}
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}
