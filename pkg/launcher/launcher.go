package launcher

import (
	"errors"
	"fmt"
	"math/rand"
	"os/exec"
	"runtime"
)

// ErrEmptyCatalog is returned when no reminder URLs are configured. An
// empty catalog is a configuration bug and is also rejected at startup.
var ErrEmptyCatalog = errors.New("reminder catalog is empty")

// Opener invokes the OS default handler for a URL
type Opener interface {
	Open(url string) error
}

// ExecOpener opens URLs with the platform open command
type ExecOpener struct{}

// Open shells out to the default-handler open mechanism. Failures are
// reported to the caller, which logs and continues.
func (ExecOpener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Launcher selects reminder URLs uniformly at random from an immutable
// catalog. The random source is injected so tests can use a fixed seed.
type Launcher struct {
	catalog []string
	opener  Opener
	rng     *rand.Rand
}

// New creates a launcher over the given catalog
func New(catalog []string, opener Opener, rng *rand.Rand) *Launcher {
	return &Launcher{
		catalog: catalog,
		opener:  opener,
		rng:     rng,
	}
}

// LaunchRandom picks one URL uniformly at random and opens it. The
// emptiness check happens before selection so an empty catalog never
// silently no-ops.
func (l *Launcher) LaunchRandom() (string, error) {
	if len(l.catalog) == 0 {
		return "", ErrEmptyCatalog
	}

	url := l.catalog[l.rng.Intn(len(l.catalog))]
	if err := l.opener.Open(url); err != nil {
		return url, err
	}
	return url, nil
}
