//go:build !portaudio

package frame

import "errors"

// ErrDeviceUnavailable indicates live microphone capture is not compiled in.
var ErrDeviceUnavailable = errors.New("frame: device capture not available (build without -tags portaudio)")

// DeviceAvailable reports that no live-capture backend is compiled in.
func DeviceAvailable() bool { return false }

// NewDeviceSource returns an error when built without the portaudio tag.
func NewDeviceSource(_, _, _, _ int) (Source, error) {
	return nil, ErrDeviceUnavailable
}
