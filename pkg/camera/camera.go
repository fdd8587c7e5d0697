package camera

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned when the device yields no data. The monitor loop
// treats this as fatal; there is no retry policy for a dead camera.
var ErrNoFrame = errors.New("camera returned no frame")

// Source yields successive frames from a capture device
type Source interface {
	// NextFrame reads the next frame into dst
	NextFrame(dst *gocv.Mat) error

	// Close releases the capture device
	Close() error
}

// Webcam is a Source backed by a local video capture device
type Webcam struct {
	cap *gocv.VideoCapture
}

// Open opens the capture device at the given index
func Open(deviceIndex int) (*Webcam, error) {
	vc, err := gocv.OpenVideoCapture(deviceIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera device %d: %w", deviceIndex, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera device %d is not available: %w", deviceIndex, ErrNoFrame)
	}
	return &Webcam{cap: vc}, nil
}

// NextFrame reads one frame and flips it horizontally for a mirror view
func (w *Webcam) NextFrame(dst *gocv.Mat) error {
	if ok := w.cap.Read(dst); !ok || dst.Empty() {
		return ErrNoFrame
	}
	gocv.Flip(*dst, dst, 1)
	return nil
}

// Close releases the capture device
func (w *Webcam) Close() error {
	return w.cap.Close()
}
