package window

import (
	"errors"
	"testing"
)

type MockDetector struct {
	windows    []Info
	err        error
	available  bool
	platform   string
	closeError error
}

func (m *MockDetector) ListOpenWindows() ([]Info, error) { return m.windows, m.err }
func (m *MockDetector) IsAvailable() bool                { return m.available }
func (m *MockDetector) Platform() string                 { return m.platform }
func (m *MockDetector) Close() error                     { return m.closeError }

func TestMatcherMatches(t *testing.T) {
	m := Matcher{AppName: "firefox", TitleSubstring: "Instagram"}

	tests := []struct {
		name   string
		window Info
		want   bool
	}{
		{
			name:   "Exact match",
			window: Info{AppName: "firefox", Title: "Instagram - Mozilla Firefox"},
			want:   true,
		},
		{
			name:   "App name case-insensitive",
			window: Info{AppName: "Firefox", Title: "Instagram - Mozilla Firefox"},
			want:   true,
		},
		{
			name:   "Title substring is case-sensitive",
			window: Info{AppName: "firefox", Title: "instagram - Mozilla Firefox"},
			want:   false,
		},
		{
			name:   "Different app",
			window: Info{AppName: "code", Title: "Instagram clone - editor"},
			want:   false,
		},
		{
			name:   "Title without substring",
			window: Info{AppName: "firefox", Title: "Hacker News - Mozilla Firefox"},
			want:   false,
		},
		{
			name:   "Substring in middle of title",
			window: Info{AppName: "firefox", Title: "(3) Instagram photos"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Matches(tt.window); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}

func TestIsDistractionOpen(t *testing.T) {
	var _ Detector = (*MockDetector)(nil)

	m := Matcher{AppName: "firefox", TitleSubstring: "Instagram"}

	mock := &MockDetector{
		windows: []Info{
			{AppName: "code", Title: "service.go - editor"},
			{AppName: "firefox", Title: "Instagram - Mozilla Firefox"},
		},
		available: true,
		platform:  "x11",
	}

	open, err := m.IsDistractionOpen(mock)
	if err != nil {
		t.Fatalf("IsDistractionOpen() error = %v", err)
	}
	if !open {
		t.Error("IsDistractionOpen() = false, want true")
	}
}

func TestIsDistractionOpenNoMatch(t *testing.T) {
	m := Matcher{AppName: "firefox", TitleSubstring: "Instagram"}

	mock := &MockDetector{
		windows: []Info{
			{AppName: "firefox", Title: "Mozilla Firefox"},
		},
	}

	open, err := m.IsDistractionOpen(mock)
	if err != nil {
		t.Fatalf("IsDistractionOpen() error = %v", err)
	}
	if open {
		t.Error("IsDistractionOpen() = true, want false")
	}
}

func TestIsDistractionOpenPropagatesError(t *testing.T) {
	m := Matcher{AppName: "firefox", TitleSubstring: "Instagram"}
	mock := &MockDetector{err: errors.New("display gone")}

	_, err := m.IsDistractionOpen(mock)
	if err == nil {
		t.Error("IsDistractionOpen() error = nil, want detector error")
	}
}
