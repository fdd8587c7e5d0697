package display

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/phonewatch/phonewatch/pkg/utils"
)

// HUD is the per-frame overlay state
type HUD struct {
	PhonePresent      bool
	Confidence        float64
	Box               image.Rectangle
	DistractionOpen   bool
	CooldownRemaining time.Duration
}

// Display shows frames and polls the quit keystroke
type Display interface {
	// Render draws the overlay onto frame and shows it
	Render(frame *gocv.Mat, hud HUD)

	// PollKey returns the pending key code, or -1 if none
	PollKey() int

	// Close destroys the window
	Close() error
}

var (
	colorDetected   = color.RGBA{G: 255}
	colorDistracted = color.RGBA{R: 255, B: 255}
	colorCooldown   = color.RGBA{R: 255, G: 255}
)

// Window is a Display backed by an on-screen highgui window
type Window struct {
	win *gocv.Window
}

// NewWindow opens the monitor window
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Render draws the bounding box, status text and cooldown countdown
func (w *Window) Render(frame *gocv.Mat, hud HUD) {
	if hud.PhonePresent {
		if !hud.Box.Empty() {
			gocv.Rectangle(frame, hud.Box, colorDetected, 2)
		}
		label := fmt.Sprintf("PHONE! (%d%%)", int(hud.Confidence*100))
		gocv.PutText(frame, label, image.Pt(10, 30),
			gocv.FontHersheySimplex, 1, colorDetected, 2)
	}

	if hud.DistractionOpen {
		gocv.PutText(frame, "Distraction app open!", image.Pt(10, 100),
			gocv.FontHersheySimplex, 0.8, colorDistracted, 2)
	}

	if hud.CooldownRemaining > 0 {
		seconds := int64(hud.CooldownRemaining.Seconds() + 0.5)
		label := fmt.Sprintf("Ready in: %s", utils.FormatRoundedUnit(seconds))
		gocv.PutText(frame, label, image.Pt(10, 70),
			gocv.FontHersheySimplex, 0.7, colorCooldown, 2)
	}

	w.win.IMShow(*frame)
}

// PollKey waits one millisecond for a keystroke
func (w *Window) PollKey() int {
	return w.win.WaitKey(1)
}

// Close destroys the window
func (w *Window) Close() error {
	return w.win.Close()
}
