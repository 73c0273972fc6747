package audio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/murmur/internal/config"
)

type recordingBinder struct {
	micCalls     []int
	speakerCalls []int
}

func (b *recordingBinder) SetMicDevice(index int)     { b.micCalls = append(b.micCalls, index) }
func (b *recordingBinder) SetSpeakerDevice(index int) { b.speakerCalls = append(b.speakerCalls, index) }

func TestBindDevicesAppliesExplicitIndexes(t *testing.T) {
	st := config.NewStore()
	st.Set(config.SectionGeneral, config.KeyMicDeviceIndex, 3)
	st.Set(config.SectionGeneral, config.KeySpeakerDeviceIndex, 0)

	binder := &recordingBinder{}
	var out bytes.Buffer
	BindDevices(st, binder, &out)

	require.Equal(t, []int{3}, binder.micCalls)
	require.Equal(t, []int{0}, binder.speakerCalls)
	require.Contains(t, out.String(), "[INFO] Override default microphone with device specified in parameters file.")
	require.Contains(t, out.String(), "[INFO] Override default speaker with device specified in parameters file.")
}

func TestBindDevicesDisableWinsOverIndex(t *testing.T) {
	st := config.NewStore()
	st.Set(config.SectionGeneral, config.KeyDisableMic, true)
	st.Set(config.SectionGeneral, config.KeyMicDeviceIndex, 3)

	binder := &recordingBinder{}
	var out bytes.Buffer
	BindDevices(st, binder, &out)

	require.Empty(t, binder.micCalls)
	require.Empty(t, binder.speakerCalls)
	require.Empty(t, out.String())
}

func TestBindDevicesUnsetIndexBindsNothing(t *testing.T) {
	st := config.NewStore()

	binder := &recordingBinder{}
	var out bytes.Buffer
	BindDevices(st, binder, &out)

	require.Empty(t, binder.micCalls)
	require.Empty(t, binder.speakerCalls)
	require.Empty(t, out.String())
}

func TestBindDevicesIsIdempotent(t *testing.T) {
	st := config.NewStore()
	st.Set(config.SectionGeneral, config.KeySpeakerDeviceIndex, 2)

	binder := &recordingBinder{}
	var out bytes.Buffer
	BindDevices(st, binder, &out)
	BindDevices(st, binder, &out)

	require.Equal(t, []int{2, 2}, binder.speakerCalls)
	require.Empty(t, binder.micCalls)
}
