package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables.
// Environment variables override default values.
func LoadFromEnv(cfg *Config) {
	// Roboflow configuration
	if apiKey := os.Getenv("ROBOFLOW_API_KEY"); apiKey != "" {
		cfg.Roboflow.APIKey = apiKey
	}

	if modelID := os.Getenv("PHONEWATCH_MODEL_ID"); modelID != "" {
		cfg.Roboflow.ModelID = modelID
	}

	if label := os.Getenv("PHONEWATCH_TARGET_LABEL"); label != "" {
		cfg.Roboflow.TargetLabel = label
	}

	if confidence := os.Getenv("PHONEWATCH_CONFIDENCE"); confidence != "" {
		if val, err := strconv.ParseFloat(confidence, 64); err == nil && val >= 0 && val <= 1 {
			cfg.Roboflow.Confidence = val
		}
	}

	if timeout := os.Getenv("PHONEWATCH_API_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.Roboflow.Timeout = time.Duration(seconds) * time.Second
		}
	}

	// Monitor configuration
	if cooldown := os.Getenv("PHONEWATCH_COOLDOWN"); cooldown != "" {
		if seconds, err := strconv.Atoi(cooldown); err == nil && seconds > 0 {
			cfg.Monitor.CooldownDuration = time.Duration(seconds) * time.Second
		}
	}

	if checkPhone := os.Getenv("PHONEWATCH_CHECK_PHONE"); checkPhone != "" {
		if val, err := strconv.ParseBool(checkPhone); err == nil {
			cfg.Monitor.CheckPhone = val
		}
	}

	if checkBrowser := os.Getenv("PHONEWATCH_CHECK_BROWSER"); checkBrowser != "" {
		if val, err := strconv.ParseBool(checkBrowser); err == nil {
			cfg.Monitor.CheckBrowser = val
		}
	}

	if cameraIndex := os.Getenv("PHONEWATCH_CAMERA_INDEX"); cameraIndex != "" {
		if idx, err := strconv.Atoi(cameraIndex); err == nil && idx >= 0 {
			cfg.Monitor.CameraIndex = idx
		}
	}

	// Distraction configuration
	if app := os.Getenv("PHONEWATCH_TARGET_APP"); app != "" {
		cfg.Distraction.AppName = app
	}

	if title := os.Getenv("PHONEWATCH_TARGET_TITLE"); title != "" {
		cfg.Distraction.TitleSubstring = title
	}

	// Reminder catalog
	if urls := os.Getenv("PHONEWATCH_REMINDER_URLS"); urls != "" {
		var catalog []string
		for _, url := range strings.Split(urls, ",") {
			if url = strings.TrimSpace(url); url != "" {
				catalog = append(catalog, url)
			}
		}
		if len(catalog) > 0 {
			cfg.Reminders = catalog
		}
	}

	// Database configuration
	if dbPath := os.Getenv("PHONEWATCH_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Daemon configuration
	if pidFile := os.Getenv("PHONEWATCH_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
