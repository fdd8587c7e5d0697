package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phonewatch/phonewatch/internal/config"
	"github.com/phonewatch/phonewatch/internal/daemon"
	"github.com/phonewatch/phonewatch/internal/database"
	"github.com/phonewatch/phonewatch/internal/monitor"
	"github.com/phonewatch/phonewatch/pkg/camera"
	"github.com/phonewatch/phonewatch/pkg/detect"
	"github.com/phonewatch/phonewatch/pkg/detector"
	"github.com/phonewatch/phonewatch/pkg/display"
	"github.com/phonewatch/phonewatch/pkg/launcher"
	"github.com/phonewatch/phonewatch/pkg/window"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const windowTitle = "Phone Detection Monitor"

func main() {
	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "run":
		if err := runMonitor(); err != nil {
			log.Printf("Fatal: %v", err)
			os.Exit(1)
		}
	case "stop":
		stopMonitor()
	case "status":
		showStatus()
	case "errors":
		showErrors()
	case "clear":
		clearErrors()
	case "version":
		fmt.Printf("phonewatch version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`phonewatch - phone and distraction reminder monitor

Watches the webcam for a phone in hand and the desktop for a distracting
window. When either is detected, opens a random reminder video, at most
once per cooldown period. Press 'q' in the camera window to quit.

Usage:
  phonewatch [command]

Commands:
  run                Start the monitor (default when no command is given)
  stop               Stop a running monitor
  status             Show monitor status and platform support
  errors             Show recent non-fatal errors
  clear              Clear the stored error log
  version            Show version information
  help               Show this help message

Environment Variables:
  ROBOFLOW_API_KEY           Inference API key (required for phone check)
  PHONEWATCH_MODEL_ID        Roboflow model ID
  PHONEWATCH_COOLDOWN        Cooldown between reminders in seconds
  PHONEWATCH_CONFIDENCE      Detection confidence threshold (0-1)
  PHONEWATCH_TARGET_LABEL    Class label that counts as a phone
  PHONEWATCH_TARGET_APP      Application watched for distraction windows
  PHONEWATCH_TARGET_TITLE    Window title substring that counts as distraction
  PHONEWATCH_REMINDER_URLS   Comma-separated reminder video URLs
  PHONEWATCH_CHECK_PHONE     Enable camera detection (true/false)
  PHONEWATCH_CHECK_BROWSER   Enable window detection (true/false)
  PHONEWATCH_CAMERA_INDEX    Capture device index
  PHONEWATCH_API_TIMEOUT     Inference request timeout in seconds
  PHONEWATCH_DB_PATH         Error log database path
  PHONEWATCH_PID_FILE        PID file path

Version: %s
`, version)
}

func runMonitor() error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check monitor status: %w", err)
	}
	if running {
		return fmt.Errorf("monitor is already running (PID: %d)", pid)
	}

	var windows window.Detector
	if cfg.Monitor.CheckBrowser {
		windows, err = detector.New()
		if err != nil {
			return fmt.Errorf("failed to initialize window detector: %w", err)
		}
		defer windows.Close()
		log.Printf("Window detector initialized: %s", windows.Platform())
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := database.NewRepository(db)

	var frames camera.Source
	var phones monitor.PhoneDetector
	var disp display.Display
	if cfg.Monitor.CheckPhone {
		webcam, err := camera.Open(cfg.Monitor.CameraIndex)
		if err != nil {
			return fmt.Errorf("failed to open camera: %w", err)
		}
		defer webcam.Close()
		frames = webcam
		log.Println("Camera initialized")

		phones = detect.NewClient(detect.Config{
			APIKey:      cfg.Roboflow.APIKey,
			ModelID:     cfg.Roboflow.ModelID,
			TargetLabel: cfg.Roboflow.TargetLabel,
			Confidence:  cfg.Roboflow.Confidence,
			Timeout:     cfg.Roboflow.Timeout,
		})

		win := display.NewWindow(windowTitle)
		defer win.Close()
		disp = win
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rl := launcher.New(cfg.Reminders, launcher.ExecOpener{}, rng)

	if err := dm.WritePID(); err != nil {
		return err
	}
	defer dm.RemovePID()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Println("Starting phonewatch monitor...")
	log.Printf("%s", cfg.String())

	svc := monitor.NewService(cfg, repo, frames, phones, windows, rl, disp)
	if err := svc.Run(ctx); err != nil {
		return err
	}

	log.Println("Monitor stopped")
	return nil
}

func stopMonitor() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop monitor: %v", err)
	}
	fmt.Println("Monitor stopped")
}

func showStatus() {
	cfg := config.New()

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check monitor status: %v", err)
	}
	if running {
		fmt.Printf("Monitor is running (PID: %d)\n", pid)
	} else {
		fmt.Println("Monitor is not running")
	}

	fmt.Printf("Display server: %s\n", detector.DetectDisplayServer())
	if det, err := detector.New(); err != nil {
		fmt.Printf("Window detection: unavailable (%v)\n", err)
	} else {
		fmt.Printf("Window detection: %s\n", det.Platform())
		det.Close()
	}

	fmt.Printf("\n%s\n", cfg.String())
}

func showErrors() {
	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	entries, err := database.NewRepository(db).GetRecentErrors(20)
	if err != nil {
		log.Fatalf("Failed to query error log: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("No errors recorded")
		return
	}

	for _, e := range entries {
		fmt.Printf("%s  [%s]  %s\n", e.Timestamp.Format(time.RFC3339), e.Source, e.ErrorMsg)
	}
}

func clearErrors() {
	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.NewRepository(db).Clear(); err != nil {
		log.Fatalf("Failed to clear error log: %v", err)
	}
	fmt.Println("Error log cleared")
}
