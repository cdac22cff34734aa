// Package browser launches and drives a media-ready Chrome through Rod.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Config configures Chrome launch options.
type Config struct {
	Headless bool          // Run in headless mode (default: true)
	Timeout  time.Duration // Default operation timeout (default: 30s)
	Bin      string        // Chrome binary; empty lets Rod find or download one
}

// DefaultConfig returns defaults for e2e runs.
func DefaultConfig() Config {
	return Config{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}

// Client wraps a Rod browser configured for the meeting widget:
//   - fake camera and microphone streams
//   - auto-granted media permissions
//   - no sandbox (for containers)
//   - autoplay without a user gesture
type Client struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
}

// Launcher returns the launcher NewClient uses, exposed for callers that need
// to add flags.
func Launcher(cfg Config) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("use-fake-device-for-media-stream").
		Set("use-fake-ui-for-media-stream").
		Set("autoplay-policy", "no-user-gesture-required")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	return l
}

// NewClient launches Chrome and connects to it.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	url, err := Launcher(cfg).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	return &Client{
		browser: browser,
		timeout: cfg.Timeout,
	}, nil
}

// Navigate opens url in a new page and makes it the current page.
func (c *Client) Navigate(url string) (*rod.Page, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	c.page = page

	if err := page.Timeout(c.timeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.Timeout(c.timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	return page, nil
}

// Page returns the current page, or nil if none is open.
func (c *Client) Page() *rod.Page {
	return c.page
}

// Timeout is the default operation timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Eval runs JavaScript on the current page.
func (c *Client) Eval(js string, args ...interface{}) (gson.JSON, error) {
	if c.page == nil {
		return gson.JSON{}, errors.New("no page open, call Navigate first")
	}
	result, err := c.page.Eval(js, args...)
	if err != nil {
		return gson.JSON{}, fmt.Errorf("eval failed: %w", err)
	}
	return result.Value, nil
}

// WaitStable waits until the current page stops changing.
func (c *Client) WaitStable() error {
	if c.page == nil {
		return errors.New("no page open")
	}
	return c.page.WaitStable(c.timeout)
}

// Close shuts Chrome down. Always defer it to avoid orphaned processes.
func (c *Client) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}

// KillOrphans kills Chrome processes Rod launched and that outlived their
// test through a panic or os.Exit. Only browsers running from Rod's user data
// directory are matched. It is best effort and ignores failures.
func KillOrphans() {
	switch runtime.GOOS {
	case "darwin", "linux":
		// pkill exits non-zero when nothing matched.
		_ = exec.Command("pkill", "-f", orphanPattern()).Run()
	case "windows":
		script := fmt.Sprintf(
			"Get-CimInstance Win32_Process | Where-Object { $_.CommandLine -like '*%s*' } | Invoke-CimMethod -MethodName Terminate",
			launcher.DefaultUserDataDirPrefix,
		)
		_ = exec.Command("powershell", "-NoProfile", "-Command", script).Run()
	}
}

// orphanPattern matches the command line of a Chrome started by Rod's
// launcher with its default user data directory.
func orphanPattern() string {
	return "--user-data-dir=" + regexp.QuoteMeta(launcher.DefaultUserDataDirPrefix)
}
