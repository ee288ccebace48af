// Package rod implements the automation driver against a Chromium browser
// using go-rod. It owns the single destination session for the whole run.
package rod

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ports"
)

// Config holds browser configuration.
type Config struct {
	// BaseURL is the destination site root.
	BaseURL string

	// DebuggerURL attaches to an already-running browser instead of
	// launching one.
	DebuggerURL string

	// Bin overrides the browser binary to launch.
	Bin string

	Headless bool

	// NavTimeout bounds page navigation and load waits.
	NavTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://www.librarything.com",
		Headless:   false,
		NavTimeout: 30 * time.Second,
	}
}

// Driver implements ports.Driver over one rod-controlled browser session.
type Driver struct {
	cfg      Config
	sessions ports.SessionStore
	logger   ports.Logger

	browser *rod.Browser
	page    *rod.Page

	// lastWorkID is captured from the created-record URL on submit so
	// ReadBack can address the details page.
	lastWorkID string

	// entryMode tracks which form variant is open; element ids differ
	// between the manual and source-matched paths.
	entryMode domain.EntryMode
}

// New creates a driver. Call Start before issuing operations.
func New(cfg Config, sessions ports.SessionStore, logger ports.Logger) *Driver {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = DefaultConfig().NavTimeout
	}
	return &Driver{cfg: cfg, sessions: sessions, logger: logger}
}

// Start launches or attaches to the browser, opens the session page, and
// restores saved cookies if the session store has any.
func (d *Driver) Start(ctx context.Context) error {
	controlURL := d.cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(d.cfg.Headless)
		if d.cfg.Bin != "" {
			launch = launch.Bin(d.cfg.Bin)
		}
		u, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	d.browser = browser

	if err := d.restoreCookies(ctx); err != nil {
		d.logger.Warn("failed to restore session cookies", ports.Err(err))
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: d.cfg.BaseURL})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	d.page = page
	return page.Timeout(d.cfg.NavTimeout).WaitLoad()
}

// Stop saves the session cookies and closes the browser.
func (d *Driver) Stop(ctx context.Context) error {
	if d.browser == nil {
		return nil
	}
	if err := d.saveCookies(ctx); err != nil {
		d.logger.Warn("failed to save session cookies", ports.Err(err))
	}
	err := d.browser.Close()
	d.browser = nil
	d.page = nil
	return err
}

// LoggedIn reports whether the restored session is authenticated: the home
// page only resolves for a logged-in user.
func (d *Driver) LoggedIn(ctx context.Context) (bool, error) {
	if err := d.navigate(ctx, d.cfg.BaseURL+"/home"); err != nil {
		return false, err
	}
	info, err := d.page.Info()
	if err != nil {
		return false, err
	}
	u, err := url.Parse(info.URL)
	if err != nil {
		return false, err
	}
	return u.Path == "/home", nil
}

func (d *Driver) restoreCookies(ctx context.Context) error {
	blob, err := d.sessions.Load(ctx)
	if err != nil || blob == nil {
		return err
	}
	var cookies []*proto.NetworkCookieParam
	if err := json.Unmarshal(blob, &cookies); err != nil {
		return fmt.Errorf("decode session blob: %w", err)
	}
	return d.browser.SetCookies(cookies)
}

func (d *Driver) saveCookies(ctx context.Context) error {
	cookies, err := d.browser.GetCookies()
	if err != nil {
		return err
	}
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	blob, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return d.sessions.Save(ctx, blob)
}

// navigate loads a URL on the session page and waits for it.
func (d *Driver) navigate(ctx context.Context, u string) error {
	page := d.page.Context(ctx).Timeout(d.cfg.NavTimeout)
	if err := page.Navigate(u); err != nil {
		return fmt.Errorf("navigate %s: %w", u, err)
	}
	return page.WaitLoad()
}

// html returns the current page HTML for parsing.
func (d *Driver) html(ctx context.Context) (string, error) {
	return d.page.Context(ctx).HTML()
}

// element finds one element with the page timeout applied.
func (d *Driver) element(ctx context.Context, selector string) (*rod.Element, error) {
	el, err := d.page.Context(ctx).Timeout(d.cfg.NavTimeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element %s: %w", selector, err)
	}
	return el, nil
}

// setText clears and types into a text input or textarea, normalizing line
// breaks the way the destination expects.
func (d *Driver) setText(ctx context.Context, selector, value string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	value = strings.ReplaceAll(strings.ReplaceAll(value, "\r\n", "\n"), "\r", "\n")
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}
