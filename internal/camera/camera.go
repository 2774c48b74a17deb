// Package camera abstracts still-frame acquisition. The capture loop depends
// only on Device.Capture; device discovery and lifecycle live here too.
package camera

import "errors"

var (
	// ErrDeviceUnavailable indicates the device could not be opened or is busy.
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	// ErrCaptureFailed indicates the device is open but did not yield a frame.
	ErrCaptureFailed = errors.New("frame capture failed")
)

// Descriptor identifies an attachable camera device.
type Descriptor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Device produces encoded still frames.
type Device interface {
	// Capture acquires one still frame as encoded JPEG bytes.
	Capture() ([]byte, error)
	// Close releases the underlying device handle.
	Close() error
}
