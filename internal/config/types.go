// Package config resolves, loads, and persists murmur's layered
// configuration: compiled-in defaults under a sparse override file.
package config

// Section names used by every layer of the store.
const (
	SectionGeneral    = "General"
	SectionOpenAI     = "OpenAI"
	SectionWhisperCpp = "WhisperCpp"
	SectionDeepgram   = "Deepgram"
	SectionTogether   = "Together"
	SectionTranscript = "Transcript"
)

// Key names shared across sections. KeyLocalModelFile keeps the
// historical "transcripton" spelling; override files written by older
// releases depend on it.
const (
	KeyUseAPI              = "use_api"
	KeyDisableMic          = "disable_mic"
	KeyDisableSpeaker      = "disable_speaker"
	KeyMicDeviceIndex      = "mic_device_index"
	KeySpeakerDeviceIndex  = "speaker_device_index"
	KeyAPIKey              = "api_key"
	KeyBaseURL             = "base_url"
	KeyChatModel           = "chat_model"
	KeyLocalModelFile      = "local_transcripton_model_file"
	KeyServerURL           = "server_url"
	KeyModel               = "model"
	KeyCapitalizeSentences = "capitalize_sentences"
)

// Store holds two section/key/value layers: compiled-in defaults and
// the override layer backed by override.yaml. Reads see the override
// layer first; writes land in the override layer only.
type Store struct {
	defaults map[string]map[string]any
	override map[string]map[string]any
}

// Warning is a non-fatal load message.
type Warning struct {
	Message string
}

// NewStore returns a store holding only the compiled-in defaults.
func NewStore() *Store {
	return &Store{
		defaults: defaultLayer(),
		override: make(map[string]map[string]any),
	}
}

func (s *Store) lookup(section, key string) (any, bool) {
	if sec, ok := s.override[section]; ok {
		if v, ok := sec[key]; ok {
			return v, true
		}
	}
	if sec, ok := s.defaults[section]; ok {
		if v, ok := sec[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// String returns the merged-view string at section/key, or "" when the
// key is unknown or holds a different type.
func (s *Store) String(section, key string) string {
	v, ok := s.lookup(section, key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Bool returns the merged-view bool at section/key, or false when the
// key is unknown or holds a different type.
func (s *Store) Bool(section, key string) bool {
	v, ok := s.lookup(section, key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int returns the merged-view integer at section/key, or 0 when the
// key is unknown or holds a non-numeric type.
func (s *Store) Int(section, key string) int {
	v, ok := s.lookup(section, key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Set writes a value into the in-memory override layer. Nothing is
// persisted until SaveOverride.
func (s *Store) Set(section, key string, value any) {
	sec, ok := s.override[section]
	if !ok {
		sec = make(map[string]any)
		s.override[section] = sec
	}
	sec[key] = value
}
