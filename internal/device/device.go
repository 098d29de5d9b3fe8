// Package device classifies UCM device section names into device types.
package device

import "strings"

// Type is the semantic category of a device section.
type Type int

const (
	Speaker Type = iota + 1
	Headphone
	InternalMic
	Mic
	HDMI
	BluetoothPCMIn
	BluetoothPCMOut
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Speaker:
		return "Speaker"
	case Headphone:
		return "Headphone"
	case InternalMic:
		return "InternalMic"
	case Mic:
		return "Mic"
	case HDMI:
		return "HDMI"
	case BluetoothPCMIn:
		return "BluetoothPCMIn"
	case BluetoothPCMOut:
		return "BluetoothPCMOut"
	default:
		return "unknown"
	}
}

// IsPlayback reports whether the device plays audio out. All other types
// capture.
func (t Type) IsPlayback() bool {
	switch t {
	case Speaker, Headphone, HDMI, BluetoothPCMOut:
		return true
	}
	return false
}

// HasJack reports whether the device is detected through a jack and so
// needs a JackDev.
func (t Type) HasJack() bool {
	return t == Headphone || t == Mic || t == HDMI
}

// JackSwitch returns the input event switch code the device's JackSwitch
// must carry, from "Switch events" in include/uapi/linux/input-event-codes.h.
func (t Type) JackSwitch() (code int, ok bool) {
	switch t {
	case Headphone:
		return swHeadphoneInsert, true
	case Mic:
		return swMicrophoneInsert, true
	}
	return 0, false
}

const (
	swHeadphoneInsert  = 0x02
	swMicrophoneInsert = 0x04
)

var names = map[string]Type{
	"Speaker":      Speaker,
	"Headphone":    Headphone,
	"Internal Mic": InternalMic,
	"Front Mic":    InternalMic,
	"Rear Mic":     InternalMic,
	"Mic":          Mic,
	"SCO Line In":  BluetoothPCMIn,
	"SCO Line Out": BluetoothPCMOut,
}

// Classify resolves a device section name. Exact names come from a fixed
// table; any other name containing "HDMI" is an HDMI device. ok is false
// for unknown names.
func Classify(name string) (t Type, ok bool) {
	if t, ok := names[name]; ok {
		return t, true
	}
	if strings.Contains(name, "HDMI") {
		return HDMI, true
	}
	return 0, false
}
