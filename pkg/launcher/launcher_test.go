package launcher

import (
	"errors"
	"math/rand"
	"testing"
)

type mockOpener struct {
	opened []string
	err    error
}

func (m *mockOpener) Open(url string) error {
	m.opened = append(m.opened, url)
	return m.err
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestLaunchRandomEmptyCatalog(t *testing.T) {
	opener := &mockOpener{}
	l := New(nil, opener, newTestRand())

	_, err := l.LaunchRandom()
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("LaunchRandom() error = %v, want ErrEmptyCatalog", err)
	}
	if len(opener.opened) != 0 {
		t.Errorf("opener called %d times for empty catalog, want 0", len(opener.opened))
	}
}

func TestLaunchRandomSelectsFromCatalog(t *testing.T) {
	catalog := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	opener := &mockOpener{}
	l := New(catalog, opener, newTestRand())

	valid := make(map[string]bool, len(catalog))
	for _, url := range catalog {
		valid[url] = true
	}

	for i := 0; i < 100; i++ {
		url, err := l.LaunchRandom()
		if err != nil {
			t.Fatalf("LaunchRandom() error = %v", err)
		}
		if !valid[url] {
			t.Fatalf("LaunchRandom() returned %q, not in catalog", url)
		}
	}

	if len(opener.opened) != 100 {
		t.Errorf("opener called %d times, want 100", len(opener.opened))
	}
}

// With a fixed seed, each catalog entry should be picked a roughly even
// share of the time.
func TestLaunchRandomDistribution(t *testing.T) {
	catalog := []string{"a", "b", "c", "d"}
	opener := &mockOpener{}
	l := New(catalog, opener, newTestRand())

	const trials = 4000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		url, err := l.LaunchRandom()
		if err != nil {
			t.Fatalf("LaunchRandom() error = %v", err)
		}
		counts[url]++
	}

	expected := trials / len(catalog)
	for _, url := range catalog {
		got := counts[url]
		// 20% tolerance is generous for 4000 trials
		if got < expected*8/10 || got > expected*12/10 {
			t.Errorf("URL %q picked %d times, want ~%d", url, got, expected)
		}
	}
}

func TestLaunchRandomOpenerFailure(t *testing.T) {
	opener := &mockOpener{err: errors.New("no browser")}
	l := New([]string{"https://example.com/a"}, opener, newTestRand())

	url, err := l.LaunchRandom()
	if err == nil {
		t.Fatal("LaunchRandom() error = nil, want opener error")
	}
	if errors.Is(err, ErrEmptyCatalog) {
		t.Error("LaunchRandom() returned ErrEmptyCatalog for opener failure")
	}
	if url != "https://example.com/a" {
		t.Errorf("LaunchRandom() url = %q, want the chosen URL even on failure", url)
	}
}
