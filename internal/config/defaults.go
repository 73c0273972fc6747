package config

// defaultLayer returns the compiled-in values every invocation starts
// from. The override layer shadows these key by key.
func defaultLayer() map[string]map[string]any {
	return map[string]map[string]any{
		SectionGeneral: {
			KeyUseAPI:             false,
			KeyDisableMic:         false,
			KeyDisableSpeaker:     false,
			KeyMicDeviceIndex:     -1,
			KeySpeakerDeviceIndex: -1,
		},
		SectionOpenAI: {
			KeyAPIKey:         "",
			KeyBaseURL:        "https://api.openai.com/v1",
			KeyChatModel:      "gpt-4o-mini",
			KeyLocalModelFile: "base",
		},
		SectionWhisperCpp: {
			KeyLocalModelFile: "base",
			KeyServerURL:      "http://127.0.0.1:8080",
		},
		SectionDeepgram: {
			KeyAPIKey:  "",
			KeyBaseURL: "https://api.deepgram.com",
			KeyModel:   "nova-2",
		},
		SectionTogether: {
			KeyAPIKey:    "",
			KeyBaseURL:   "https://api.together.xyz/v1",
			KeyChatModel: "meta-llama/Llama-3.3-70B-Instruct-Turbo",
		},
		SectionTranscript: {
			KeyCapitalizeSentences: false,
		},
	}
}
