// Package audio handles Pulse device discovery, index binding, PCM
// capture streams, and WAV conversion.
package audio

import (
	"context"
	"fmt"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// CaptureSampleRate is the fixed mono s16 rate every capture stream
// delivers.
const CaptureSampleRate = 16000

const chunkSizeBytes = 640 // 20ms @ 16kHz mono s16

// Device describes one Pulse endpoint. Index is the enumeration
// position users pass back through --mic_device_index and
// --speaker_device_index; it is dense per listing, not a Pulse handle.
type Device struct {
	Index       int
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
	Monitor     string
}

// Inventory is the machine's capture and playback device listing.
type Inventory struct {
	Sources []Device
	Sinks   []Device
}

func newClient() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("murmur"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	return client, nil
}

// ListDevices returns the Pulse source and sink inventory with
// default/availability metadata.
func ListDevices(_ context.Context) (Inventory, error) {
	client, err := newClient()
	if err != nil {
		return Inventory{}, err
	}
	defer client.Close()
	return listDevices(client)
}

func listDevices(client *pulse.Client) (Inventory, error) {
	defaultSource, err := client.DefaultSource()
	if err != nil {
		return Inventory{}, fmt.Errorf("read default source: %w", err)
	}
	defaultSourceID := defaultSource.ID()

	defaultSink, err := client.DefaultSink()
	if err != nil {
		return Inventory{}, fmt.Errorf("read default sink: %w", err)
	}
	defaultSinkID := defaultSink.ID()

	var sourceInfos pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &sourceInfos); err != nil {
		return Inventory{}, fmt.Errorf("list sources: %w", err)
	}

	var sinkInfos pulseproto.GetSinkInfoListReply
	if err := client.RawRequest(&pulseproto.GetSinkInfoList{}, &sinkInfos); err != nil {
		return Inventory{}, fmt.Errorf("list sinks: %w", err)
	}

	inv := Inventory{}
	for _, source := range sourceInfos {
		if source == nil {
			continue
		}
		inv.Sources = append(inv.Sources, Device{
			Index:       len(inv.Sources),
			ID:          source.SourceName,
			Description: source.Device,
			State:       deviceStateString(source.State),
			Available:   sourceAvailable(source),
			Muted:       source.Mute,
			Default:     source.SourceName == defaultSourceID,
		})
	}
	for _, sink := range sinkInfos {
		if sink == nil {
			continue
		}
		inv.Sinks = append(inv.Sinks, Device{
			Index:       len(inv.Sinks),
			ID:          sink.SinkName,
			Description: sink.Device,
			State:       deviceStateString(sink.State),
			Available:   sinkAvailable(sink),
			Muted:       sink.Mute,
			Default:     sink.SinkName == defaultSinkID,
			Monitor:     sink.MonitorSourceName,
		})
	}
	return inv, nil
}

// deviceStateString maps Pulse endpoint state constants to
// human-readable values.
func deviceStateString(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// sourceAvailable maps Pulse source port availability to a simple boolean.
func sourceAvailable(source *pulseproto.GetSourceInfoReply) bool {
	if source == nil {
		return false
	}
	if len(source.Ports) == 0 {
		return true
	}
	for _, port := range source.Ports {
		if port.Name != source.ActivePortName {
			continue
		}
		// PulseAudio values: unknown=0, no=1, yes=2.
		return port.Available == 0 || port.Available == 2
	}
	return true
}

// sinkAvailable mirrors sourceAvailable for playback endpoints.
func sinkAvailable(sink *pulseproto.GetSinkInfoReply) bool {
	if sink == nil {
		return false
	}
	if len(sink.Ports) == 0 {
		return true
	}
	for _, port := range sink.Ports {
		if port.Name != sink.ActivePortName {
			continue
		}
		return port.Available == 0 || port.Available == 2
	}
	return true
}
