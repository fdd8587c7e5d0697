package darwin

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/phonewatch/phonewatch/pkg/window"
)

// listWindowsScript asks System Events for every window of every visible
// application. Output is one window per line, app name and window title
// separated by a tab. Requires the Accessibility permission.
const listWindowsScript = `
set output to ""
tell application "System Events"
	repeat with proc in (every application process whose background only is false)
		set procName to name of proc
		repeat with w in (every window of proc)
			set output to output & procName & tab & (name of w) & linefeed
		end repeat
	end repeat
end tell
return output`

const scriptTimeout = 2 * time.Second

// Detector implements window.Detector for macOS via osascript
type Detector struct {
	hasOsascript bool
}

// NewDetector creates a new macOS detector
func NewDetector() *Detector {
	d := &Detector{}
	_, err := exec.LookPath("osascript")
	d.hasOsascript = err == nil
	return d
}

// IsAvailable checks if osascript can run on this system
func (d *Detector) IsAvailable() bool {
	return runtime.GOOS == "darwin" && d.hasOsascript
}

// Platform returns "darwin"
func (d *Detector) Platform() string {
	return "darwin"
}

// ListOpenWindows enumerates windows through System Events
func (d *Detector) ListOpenWindows() ([]window.Info, error) {
	if !d.hasOsascript {
		return nil, fmt.Errorf("osascript not found in PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, "osascript", "-e", listWindowsScript).Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("osascript timed out after %v", scriptTimeout)
		}
		return nil, fmt.Errorf("failed to execute osascript: %w", err)
	}

	return parseWindowList(string(output)), nil
}

// Close is a no-op; the detector holds no resources
func (d *Detector) Close() error {
	return nil
}

func parseWindowList(output string) []window.Info {
	var windows []window.Info
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		windows = append(windows, window.Info{
			AppName: strings.TrimSpace(parts[0]),
			Title:   parts[1],
		})
	}
	return windows
}
