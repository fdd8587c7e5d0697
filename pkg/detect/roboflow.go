package detect

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://detect.roboflow.com"

// Result is the per-frame detection outcome consumed by the monitor loop
type Result struct {
	Present    bool
	Confidence float64
	Box        image.Rectangle
}

// Config holds the inference endpoint parameters
type Config struct {
	APIKey      string
	ModelID     string
	TargetLabel string
	Confidence  float64
	BaseURL     string
	Timeout     time.Duration
}

// Client sends frames to the Roboflow object detection endpoint
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client for the configured model. The timeout bounds
// the whole request so a stalled endpoint cannot hang the monitor loop.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type prediction struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Class      string  `json:"class"`
}

type detectResponse struct {
	Predictions []prediction `json:"predictions"`
}

// Detect posts a JPEG-encoded frame and returns whether the target label
// was seen at or above the confidence threshold. The box of the best
// matching prediction is returned in the coordinate space of the uploaded
// image.
func (c *Client) Detect(ctx context.Context, jpegData []byte) (Result, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(jpegData)

	endpoint := fmt.Sprintf("%s/%s?api_key=%s",
		c.cfg.BaseURL, c.cfg.ModelID, url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(imageBase64))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to call inference API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed detectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return c.bestMatch(parsed.Predictions), nil
}

// bestMatch keeps the highest-confidence prediction whose class matches
// the target label and clears the threshold
func (c *Client) bestMatch(preds []prediction) Result {
	var result Result
	for _, p := range preds {
		if !strings.EqualFold(p.Class, c.cfg.TargetLabel) {
			continue
		}
		if p.Confidence < c.cfg.Confidence {
			continue
		}
		if result.Present && p.Confidence <= result.Confidence {
			continue
		}
		result = Result{
			Present:    true,
			Confidence: p.Confidence,
			Box:        boxFromPrediction(p),
		}
	}
	return result
}

// boxFromPrediction converts Roboflow's center-point geometry to a
// rectangle
func boxFromPrediction(p prediction) image.Rectangle {
	x0 := int(p.X - p.Width/2)
	y0 := int(p.Y - p.Height/2)
	x1 := int(p.X + p.Width/2)
	y1 := int(p.Y + p.Height/2)
	return image.Rect(x0, y0, x1, y1)
}
