package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// VideoDevice is an OpenCV-backed camera device.
type VideoDevice struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	id  int
}

// ListAvailable probes device indices 0..maxID and returns descriptors for
// every device that opens successfully.
func ListAvailable(maxID int) []Descriptor {
	var found []Descriptor
	for id := 0; id <= maxID; id++ {
		cap, err := gocv.OpenVideoCapture(id)
		if err != nil {
			continue
		}
		if cap.IsOpened() {
			found = append(found, Descriptor{ID: id, Name: fmt.Sprintf("video%d", id)})
		}
		cap.Close()
	}
	return found
}

// Open acquires the device described by d.
func Open(d Descriptor) (*VideoDevice, error) {
	cap, err := gocv.OpenVideoCapture(d.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrDeviceUnavailable, d.ID, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%w: device %d did not open", ErrDeviceUnavailable, d.ID)
	}

	return &VideoDevice{cap: cap, id: d.ID}, nil
}

// Capture reads one frame from the device and encodes it as JPEG.
func (v *VideoDevice) Capture() ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cap == nil {
		return nil, ErrDeviceUnavailable
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := v.cap.Read(&mat); !ok {
		return nil, fmt.Errorf("%w: device %d returned no frame", ErrCaptureFailed, v.id)
	}
	if mat.Empty() {
		return nil, fmt.Errorf("%w: device %d returned an empty frame", ErrCaptureFailed, v.id)
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg encode: %v", ErrCaptureFailed, err)
	}
	defer buf.Close()

	image := make([]byte, len(buf.GetBytes()))
	copy(image, buf.GetBytes())
	return image, nil
}

// Close releases the device handle. Safe to call more than once.
func (v *VideoDevice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cap == nil {
		return nil
	}
	err := v.cap.Close()
	v.cap = nil
	return err
}
