package audio

import (
	"fmt"
	"io"

	"github.com/rbright/murmur/internal/config"
)

// DeviceBinder receives explicit device selections.
type DeviceBinder interface {
	SetMicDevice(index int)
	SetSpeakerDevice(index int)
}

// BindDevices applies persisted device selections to the binder. A
// selection takes effect only when its capture side is enabled and an
// explicit index is present; disable always wins, and -1 keeps the
// Pulse default. The step is idempotent and has no other side effects.
func BindDevices(st *config.Store, binder DeviceBinder, out io.Writer) {
	if !st.Bool(config.SectionGeneral, config.KeyDisableMic) {
		if index := st.Int(config.SectionGeneral, config.KeyMicDeviceIndex); index != -1 {
			fmt.Fprintln(out, "[INFO] Override default microphone with device specified in parameters file.")
			binder.SetMicDevice(index)
		}
	}

	if !st.Bool(config.SectionGeneral, config.KeyDisableSpeaker) {
		if index := st.Int(config.SectionGeneral, config.KeySpeakerDeviceIndex); index != -1 {
			fmt.Fprintln(out, "[INFO] Override default speaker with device specified in parameters file.")
			binder.SetSpeakerDevice(index)
		}
	}
}
