package detector

import (
	"errors"
	"os"
	"runtime"

	"github.com/phonewatch/phonewatch/pkg/integrations/darwin"
	"github.com/phonewatch/phonewatch/pkg/integrations/wayland"
	"github.com/phonewatch/phonewatch/pkg/integrations/x11"
	"github.com/phonewatch/phonewatch/pkg/window"
)

// ErrPlatformUnsupported is returned when no window enumeration
// implementation can run on the current system. It is fatal at startup.
var ErrPlatformUnsupported = errors.New("window enumeration is not supported on this platform")

// New picks the window detector for the current platform. macOS uses
// System Events; Linux uses X11 or a Wayland compositor tool depending on
// the session.
func New() (window.Detector, error) {
	if runtime.GOOS == "darwin" {
		d := darwin.NewDetector()
		if d.IsAvailable() {
			return d, nil
		}
		return nil, ErrPlatformUnsupported
	}

	switch DetectDisplayServer() {
	case "wayland":
		if d := wayland.NewDetector(); d.IsAvailable() {
			return d, nil
		}
		// Many Wayland sessions still expose an X socket via XWayland
		if d, err := x11.NewDetector(); err == nil {
			return d, nil
		}
	case "x11":
		if d, err := x11.NewDetector(); err == nil {
			return d, nil
		}
	}

	return nil, ErrPlatformUnsupported
}

// DetectDisplayServer sniffs the session environment variables to decide
// which display server is in use
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
