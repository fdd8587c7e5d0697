package monitor

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/phonewatch/phonewatch/internal/config"
	"github.com/phonewatch/phonewatch/internal/cooldown"
	"github.com/phonewatch/phonewatch/internal/database"
	"github.com/phonewatch/phonewatch/internal/models"
	"github.com/phonewatch/phonewatch/pkg/camera"
	"github.com/phonewatch/phonewatch/pkg/detect"
	"github.com/phonewatch/phonewatch/pkg/display"
	"github.com/phonewatch/phonewatch/pkg/launcher"
	"github.com/phonewatch/phonewatch/pkg/window"
)

// Frames are downscaled to this size before upload (matches the model's
// input and keeps the request small)
const (
	uploadWidth  = 640
	uploadHeight = 480
)

const quitKey = 'q'

// PhoneDetector classifies a JPEG-encoded frame
type PhoneDetector interface {
	Detect(ctx context.Context, jpegData []byte) (detect.Result, error)
}

// ReminderLauncher opens a randomly chosen reminder URL
type ReminderLauncher interface {
	LaunchRandom() (string, error)
}

// Service ties the collaborators together in a single synchronous loop.
// All state is owned by the loop; nothing here is safe for concurrent use.
type Service struct {
	cfg      *config.Config
	repo     *database.Repository
	frames   camera.Source
	phones   PhoneDetector
	windows  window.Detector
	matcher  window.Matcher
	launcher ReminderLauncher
	display  display.Display
	gate     *cooldown.Gate
	now      func() time.Time
}

// NewService creates the monitor loop. frames, phones and display may be
// nil when the phone check is disabled; windows may be nil when the
// browser check is disabled.
func NewService(
	cfg *config.Config,
	repo *database.Repository,
	frames camera.Source,
	phones PhoneDetector,
	windows window.Detector,
	rl ReminderLauncher,
	disp display.Display,
) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		frames:  frames,
		phones:  phones,
		windows: windows,
		matcher: window.Matcher{
			AppName:        cfg.Distraction.AppName,
			TitleSubstring: cfg.Distraction.TitleSubstring,
		},
		launcher: rl,
		display:  disp,
		gate:     cooldown.New(cfg.Monitor.CooldownDuration),
		now:      time.Now,
	}
}

// Run executes the monitor loop until the quit keystroke, context
// cancellation, or a fatal capture error. A capture error is the only
// per-iteration condition that stops the loop.
func (s *Service) Run(ctx context.Context) error {
	if !s.cfg.Monitor.CheckPhone {
		return s.runBrowserOnly(ctx)
	}

	frame := gocv.NewMat()
	defer frame.Close()
	resized := gocv.NewMat()
	defer resized.Close()

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitor stopped by context")
			return nil
		default:
		}

		if err := s.frames.NextFrame(&frame); err != nil {
			return fmt.Errorf("camera capture failed: %w", err)
		}

		var hud display.HUD

		phonePresent := false
		result, err := s.detectPhone(ctx, frame, &resized)
		if err != nil {
			// Availability over strictness: a failed inference call
			// counts as no detection for this frame
			s.storeError("inference", err)
		} else if result.Present {
			phonePresent = true
			hud.PhonePresent = true
			hud.Confidence = result.Confidence
			hud.Box = scaleBox(result.Box, frame.Cols(), frame.Rows())
			log.Printf("Phone detected (confidence: %.2f)", result.Confidence)
		}

		distractionOpen := s.checkDistraction()
		hud.DistractionOpen = distractionOpen

		s.maybeTrigger(phonePresent, distractionOpen)

		hud.CooldownRemaining = s.gate.Remaining(s.now())
		s.display.Render(&frame, hud)

		if key := s.display.PollKey(); key == quitKey {
			log.Println("Quit key pressed")
			return nil
		}
	}
}

// runBrowserOnly loops on a fixed delay with no camera or display; the
// only exit is context cancellation.
func (s *Service) runBrowserOnly(ctx context.Context) error {
	log.Println("Running in browser-only mode")

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitor stopped by context")
			return nil
		case <-time.After(s.cfg.Monitor.BrowserPollDelay):
		}

		distractionOpen := s.checkDistraction()
		s.maybeTrigger(false, distractionOpen)
	}
}

// maybeTrigger launches a reminder when a distraction is present and the
// cooldown gate is eligible. The trigger is recorded even when the open
// call fails; launcher failures are never fatal.
func (s *Service) maybeTrigger(phonePresent, distractionOpen bool) {
	if !phonePresent && !distractionOpen {
		return
	}

	now := s.now()
	if !s.gate.IsEligible(now) {
		log.Printf("Trigger blocked by cooldown (%v remaining)", s.gate.Remaining(now).Round(time.Second))
		return
	}

	reason := "distraction app open"
	if phonePresent {
		reason = "phone detected"
	}
	log.Printf("Trigger activated: %s", reason)

	url, err := s.launcher.LaunchRandom()
	if err != nil {
		s.storeError("launcher", err)
	} else {
		log.Printf("Opened reminder video: %s", url)
	}

	s.gate.RecordTrigger(now)
}

func (s *Service) detectPhone(ctx context.Context, frame gocv.Mat, resized *gocv.Mat) (detect.Result, error) {
	gocv.Resize(frame, resized, image.Pt(uploadWidth, uploadHeight), 0, 0, gocv.InterpolationLinear)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *resized)
	if err != nil {
		return detect.Result{}, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	return s.phones.Detect(ctx, buf.GetBytes())
}

// checkDistraction queries the platform window list. Query failures are
// non-fatal and count as no distraction for this iteration.
func (s *Service) checkDistraction() bool {
	if !s.cfg.Monitor.CheckBrowser || s.windows == nil {
		return false
	}

	open, err := s.matcher.IsDistractionOpen(s.windows)
	if err != nil {
		s.storeError("window", err)
		return false
	}
	if open {
		log.Printf("Distraction window open: %s / %q", s.matcher.AppName, s.matcher.TitleSubstring)
	}
	return open
}

// storeError logs a non-fatal error and records it in the error log table
func (s *Service) storeError(source string, err error) {
	log.Printf("Error (%s): %v", source, err)

	if s.repo == nil {
		return
	}

	entry := &models.ErrorLog{
		Timestamp: s.now(),
		Source:    source,
		ErrorMsg:  err.Error(),
	}
	if dbErr := s.repo.CreateErrorLog(entry); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	}
}

// scaleBox maps a box from the uploaded image's coordinate space back to
// the captured frame
func scaleBox(box image.Rectangle, frameWidth, frameHeight int) image.Rectangle {
	sx := float64(frameWidth) / float64(uploadWidth)
	sy := float64(frameHeight) / float64(uploadHeight)
	return image.Rect(
		int(float64(box.Min.X)*sx),
		int(float64(box.Min.Y)*sy),
		int(float64(box.Max.X)*sx),
		int(float64(box.Max.Y)*sy),
	)
}

var _ PhoneDetector = (*detect.Client)(nil)
var _ ReminderLauncher = (*launcher.Launcher)(nil)
