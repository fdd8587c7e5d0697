package detect

import (
	"context"
	"encoding/base64"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:      "test-key",
		ModelID:     "mobile-phone-detection-2vads/1",
		TargetLabel: "phone",
		Confidence:  0.4,
		BaseURL:     baseURL,
	}
}

func TestDetectPhonePresent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want test-key", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		if _, err := base64.StdEncoding.DecodeString(string(body)); err != nil {
			t.Errorf("request body is not valid base64: %v", err)
		}

		w.Write([]byte(`{"predictions":[
			{"x":320,"y":240,"width":100,"height":200,"confidence":0.85,"class":"phone"}
		]}`))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	result, err := c.Detect(context.Background(), []byte("fake-jpeg"))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if !result.Present {
		t.Error("Present = false, want true")
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", result.Confidence)
	}
	want := image.Rect(270, 140, 370, 340)
	if result.Box != want {
		t.Errorf("Box = %v, want %v", result.Box, want)
	}
}

func TestDetectFiltering(t *testing.T) {
	tests := []struct {
		name        string
		predictions string
		wantPresent bool
		wantConf    float64
	}{
		{
			name:        "No predictions",
			predictions: `[]`,
			wantPresent: false,
		},
		{
			name:        "Below threshold",
			predictions: `[{"x":10,"y":10,"width":4,"height":4,"confidence":0.2,"class":"phone"}]`,
			wantPresent: false,
		},
		{
			name:        "Wrong label",
			predictions: `[{"x":10,"y":10,"width":4,"height":4,"confidence":0.9,"class":"laptop"}]`,
			wantPresent: false,
		},
		{
			name:        "Label case differs",
			predictions: `[{"x":10,"y":10,"width":4,"height":4,"confidence":0.9,"class":"Phone"}]`,
			wantPresent: true,
			wantConf:    0.9,
		},
		{
			name: "Best of several matches",
			predictions: `[
				{"x":10,"y":10,"width":4,"height":4,"confidence":0.5,"class":"phone"},
				{"x":20,"y":20,"width":4,"height":4,"confidence":0.7,"class":"phone"}
			]`,
			wantPresent: true,
			wantConf:    0.7,
		},
		{
			name:        "Exactly at threshold",
			predictions: `[{"x":10,"y":10,"width":4,"height":4,"confidence":0.4,"class":"phone"}]`,
			wantPresent: true,
			wantConf:    0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"predictions":` + tt.predictions + `}`))
			}))
			defer server.Close()

			c := NewClient(testConfig(server.URL))
			result, err := c.Detect(context.Background(), []byte("fake-jpeg"))
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}

			if result.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", result.Present, tt.wantPresent)
			}
			if tt.wantPresent && result.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v", result.Confidence, tt.wantConf)
			}
		})
	}
}

func TestDetectNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	if _, err := c.Detect(context.Background(), []byte("fake-jpeg")); err == nil {
		t.Error("Detect() error = nil for 403 response, want error")
	}
}

func TestDetectMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	if _, err := c.Detect(context.Background(), []byte("fake-jpeg")); err == nil {
		t.Error("Detect() error = nil for malformed body, want error")
	}
}

func TestDetectNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Shut down before the request

	c := NewClient(testConfig(server.URL))
	if _, err := c.Detect(context.Background(), []byte("fake-jpeg")); err == nil {
		t.Error("Detect() error = nil for refused connection, want error")
	}
}
