package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"
)

// Sentinel errors for startup validation. Both are fatal before the
// monitor loop starts.
var (
	ErrMissingAPIKey = errors.New("ROBOFLOW_API_KEY is not set")
	ErrEmptyCatalog  = errors.New("reminder catalog is empty")
)

// Config holds all application configuration
type Config struct {
	// Roboflow configuration for the hosted inference API
	Roboflow RoboflowConfig

	// Monitor configuration for the detection loop
	Monitor MonitorConfig

	// Distraction describes the app/window combination to watch for
	Distraction DistractionConfig

	// Reminders is the immutable catalog of video URLs, one of which is
	// opened at random on trigger
	Reminders []string

	// Database configuration
	Database DatabaseConfig

	// Daemon configuration
	Daemon DaemonConfig
}

// RoboflowConfig holds inference endpoint parameters
type RoboflowConfig struct {
	APIKey      string        // Secret, from ROBOFLOW_API_KEY
	ModelID     string        // Model path on detect.roboflow.com
	TargetLabel string        // Class label that counts as a phone
	Confidence  float64       // Minimum confidence in [0,1]
	Timeout     time.Duration // Bound on a single inference request
}

// MonitorConfig holds detection loop behavior
type MonitorConfig struct {
	CooldownDuration time.Duration // Minimum time between two triggers
	CheckPhone       bool          // Enable AI camera detection
	CheckBrowser     bool          // Enable distraction window detection
	CameraIndex      int           // Capture device index
	BrowserPollDelay time.Duration // Loop pacing when the camera is off
}

// DistractionConfig holds the watched application window
type DistractionConfig struct {
	AppName        string // Owning application name
	TitleSubstring string // Case-sensitive window title substring
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// DaemonConfig holds single-instance lock configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file
}

// Default returns a Config with sensible default values
func Default() *Config {
	targetApp := "firefox"
	if runtime.GOOS == "darwin" {
		targetApp = "Safari"
	}

	return &Config{
		Roboflow: RoboflowConfig{
			ModelID:     "mobile-phone-detection-2vads/1",
			TargetLabel: "phone",
			Confidence:  0.4,
			Timeout:     5 * time.Second,
		},
		Monitor: MonitorConfig{
			CooldownDuration: 10 * time.Second,
			CheckPhone:       true,
			CheckBrowser:     true,
			CameraIndex:      0,
			BrowserPollDelay: time.Second,
		},
		Distraction: DistractionConfig{
			AppName:        targetApp,
			TitleSubstring: "Instagram",
		},
		Reminders: []string{
			"https://www.youtube.com/watch?v=9qQjaqKG0Ro",
		},
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/phonewatch/phonewatch.db
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/phonewatch-%d.pid", os.Getuid()),
		},
	}
}

// Validate checks if the configuration is valid. Validation failures are
// configuration errors: the process aborts before any device is opened.
func (c *Config) Validate() error {
	if !c.Monitor.CheckPhone && !c.Monitor.CheckBrowser {
		return fmt.Errorf("at least one of phone check and browser check must be enabled")
	}

	if c.Monitor.CheckPhone && c.Roboflow.APIKey == "" {
		return ErrMissingAPIKey
	}

	if c.Monitor.CooldownDuration <= 0 {
		return fmt.Errorf("cooldown duration must be positive, got %v", c.Monitor.CooldownDuration)
	}

	if c.Roboflow.Confidence < 0 || c.Roboflow.Confidence > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1], got %v", c.Roboflow.Confidence)
	}

	if c.Roboflow.Timeout <= 0 {
		return fmt.Errorf("inference timeout must be positive, got %v", c.Roboflow.Timeout)
	}

	if len(c.Reminders) == 0 {
		return ErrEmptyCatalog
	}
	for _, url := range c.Reminders {
		if url == "" {
			return fmt.Errorf("reminder catalog contains an empty URL")
		}
	}

	if c.Monitor.CameraIndex < 0 {
		return fmt.Errorf("camera index cannot be negative, got %d", c.Monitor.CameraIndex)
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// String returns a string representation of the config. The API key is
// redacted.
func (c *Config) String() string {
	key := "(unset)"
	if c.Roboflow.APIKey != "" {
		key = "(set)"
	}
	return fmt.Sprintf(`Configuration:
  Roboflow:
    API Key: %s
    Model: %s
    Target Label: %s
    Confidence: %.2f
    Timeout: %v
  Monitor:
    Cooldown: %v
    Check Phone: %v
    Check Browser: %v
    Camera Index: %d
  Distraction:
    App: %s
    Title Contains: %q
  Reminders: %d URL(s)
  Database:
    Path: %s
  Daemon:
    PID File: %s`,
		key,
		c.Roboflow.ModelID,
		c.Roboflow.TargetLabel,
		c.Roboflow.Confidence,
		c.Roboflow.Timeout,
		c.Monitor.CooldownDuration,
		c.Monitor.CheckPhone,
		c.Monitor.CheckBrowser,
		c.Monitor.CameraIndex,
		c.Distraction.AppName,
		c.Distraction.TitleSubstring,
		len(c.Reminders),
		c.Database.Path,
		c.Daemon.PIDFile,
	)
}
