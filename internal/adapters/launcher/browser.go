// Package launcher hands links and files to other programs: the system
// browser for PubMed links and the user's editor for the config file.
package launcher

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"studybuddy/internal/ports"
)

// Browser implements ports.LinkOpener
type Browser struct {
	goos string
	run  func(*exec.Cmd) error
}

// Ensure Browser implements LinkOpener
var _ ports.LinkOpener = (*Browser)(nil)

// NewBrowser creates a Browser for the current operating system
func NewBrowser() *Browser {
	return &Browser{
		goos: runtime.GOOS,
		run:  (*exec.Cmd).Run,
	}
}

// OpenURL opens an http(s) URL with the system handler
func (b *Browser) OpenURL(rawURL string) error {
	cmd, err := b.Command(rawURL)
	if err != nil {
		return err
	}
	return b.run(cmd)
}

// Command returns the command that opens rawURL
func (b *Browser) Command(rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("refusing to open non-web URL: %s", rawURL)
	}

	switch b.goos {
	case "darwin":
		return exec.Command("open", rawURL), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", rawURL), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", b.goos)
	}
}
