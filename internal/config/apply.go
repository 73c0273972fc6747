package config

import "github.com/rbright/murmur/internal/args"

// Apply folds a resolved Request onto the store, field by field.
// Present fields overwrite; absent fields leave the stored value
// alone, with one deliberate exception: an absent model selection
// forces both engine sections back to the "base" tier. Boolean flags
// only ever turn features on. Engine and chat provider selections are
// not configuration; they stay on the Request.
func Apply(st *Store, req args.Request) {
	if req.API {
		st.Set(SectionGeneral, KeyUseAPI, true)
	}

	if req.Model != "" {
		st.Set(SectionOpenAI, KeyLocalModelFile, req.Model)
		st.Set(SectionWhisperCpp, KeyLocalModelFile, req.Model)
	} else {
		st.Set(SectionOpenAI, KeyLocalModelFile, "base")
		st.Set(SectionWhisperCpp, KeyLocalModelFile, "base")
	}

	if req.APIKey != "" {
		st.Set(SectionOpenAI, KeyAPIKey, req.APIKey)
	}

	if req.DisableMic {
		st.Set(SectionGeneral, KeyDisableMic, true)
	}
	if req.DisableSpeaker {
		st.Set(SectionGeneral, KeyDisableSpeaker, true)
	}

	if req.MicIndex.Set {
		st.Set(SectionGeneral, KeyMicDeviceIndex, req.MicIndex.Value)
	}
	if req.SpeakerIndex.Set {
		st.Set(SectionGeneral, KeySpeakerDeviceIndex, req.SpeakerIndex.Value)
	}
}
