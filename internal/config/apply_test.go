package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/murmur/internal/args"
)

func TestApplyEmptyRequestOnlyForcesBaseModel(t *testing.T) {
	st := NewStore()
	st.Set(SectionOpenAI, KeyLocalModelFile, "large-v2")
	st.Set(SectionWhisperCpp, KeyLocalModelFile, "large-v2")
	st.Set(SectionGeneral, KeyMicDeviceIndex, 5)

	Apply(st, args.Request{})

	require.Equal(t, "base", st.String(SectionOpenAI, KeyLocalModelFile))
	require.Equal(t, "base", st.String(SectionWhisperCpp, KeyLocalModelFile))
	require.Equal(t, 5, st.Int(SectionGeneral, KeyMicDeviceIndex))
	require.False(t, st.Bool(SectionGeneral, KeyUseAPI))
	require.Empty(t, st.String(SectionOpenAI, KeyAPIKey))
}

func TestApplyModelWritesBothEngineSections(t *testing.T) {
	st := NewStore()

	Apply(st, args.Request{Model: "large-v3"})

	require.Equal(t, "large-v3", st.String(SectionOpenAI, KeyLocalModelFile))
	require.Equal(t, "large-v3", st.String(SectionWhisperCpp, KeyLocalModelFile))
}

func TestApplyTransientKeyStaysInMemory(t *testing.T) {
	st := NewStore()

	Apply(st, args.Request{APIKey: "sk-once"})

	require.Equal(t, "sk-once", st.String(SectionOpenAI, KeyAPIKey))
}

func TestApplyBooleansOnlyTurnOn(t *testing.T) {
	st := NewStore()
	st.Set(SectionGeneral, KeyUseAPI, true)
	st.Set(SectionGeneral, KeyDisableMic, true)

	Apply(st, args.Request{})

	require.True(t, st.Bool(SectionGeneral, KeyUseAPI))
	require.True(t, st.Bool(SectionGeneral, KeyDisableMic))
}

func TestApplyDeviceIndexesRequireExplicitFlags(t *testing.T) {
	st := NewStore()

	Apply(st, args.Request{
		MicIndex:     args.OptionalIndex{Value: 0, Set: true},
		SpeakerIndex: args.OptionalIndex{},
	})

	require.Equal(t, 0, st.Int(SectionGeneral, KeyMicDeviceIndex))
	require.Equal(t, -1, st.Int(SectionGeneral, KeySpeakerDeviceIndex))
}

func TestApplyEngineSelectionNeverTouchesStore(t *testing.T) {
	st := NewStore()

	Apply(st, args.Request{Engine: args.EngineDeepgram, ChatProvider: args.ProviderTogether})

	require.Empty(t, st.String(SectionGeneral, "speech_to_text"))
	require.Empty(t, st.String(SectionGeneral, "chat_inference_provider"))
}
