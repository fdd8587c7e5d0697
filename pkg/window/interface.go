package window

import "strings"

// Info represents a single open window as reported by the OS
type Info struct {
	AppName string
	Title   string
}

// Detector is the interface that all window enumeration implementations must satisfy
type Detector interface {
	// ListOpenWindows returns every open window the platform can see
	ListOpenWindows() ([]Info, error)

	// IsAvailable checks if this detector can run on the current system
	IsAvailable() bool

	// Platform returns the platform identifier ("x11", "wayland" or "darwin")
	Platform() string

	// Close cleans up any resources used by the detector
	Close() error
}

// Matcher describes the application/window combination considered a distraction
type Matcher struct {
	AppName        string
	TitleSubstring string
}

// Matches reports whether a single window is a distraction window.
// App names are compared case-insensitively since platforms disagree on
// casing (WM_CLASS instance vs. process name); the title check is a
// case-sensitive substring match.
func (m Matcher) Matches(w Info) bool {
	if !strings.EqualFold(w.AppName, m.AppName) {
		return false
	}
	return strings.Contains(w.Title, m.TitleSubstring)
}

// IsDistractionOpen queries the detector and reports whether any open
// window matches.
func (m Matcher) IsDistractionOpen(det Detector) (bool, error) {
	windows, err := det.ListOpenWindows()
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if m.Matches(w) {
			return true, nil
		}
	}
	return false, nil
}
