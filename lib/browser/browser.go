// Package browser obtains a portal session by driving a real, visible
// browser through the institution's SSO. the user types their
// credentials into the SSO page themselves, this code only waits for
// the login to finish and harvests the resulting PHPSESSID cookie.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

const loginPath = "/myitsauth.php"

var ErrNoSessionCookie = fmt.Errorf("session cookie not found after login")

type Options struct {
	// defaults to the live portal
	BaseURL string
	// how long the user gets to complete the interactive login,
	// defaults to 5 minutes
	LoginBudget time.Duration
}

// Acquirer owns one browser. it is created and released explicitly by
// its caller, there is no package-global instance. the browser itself
// is only launched on the first Acquire.
type Acquirer struct {
	opts Options

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewAcquirer(opts Options) *Acquirer {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://akademik.its.ac.id"
	}
	if opts.LoginBudget == 0 {
		opts.LoginBudget = 5 * time.Minute
	}
	return &Acquirer{opts: opts}
}

func (a *Acquirer) browser() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browserCtx != nil && a.browserCtx.Err() == nil {
		return a.browserCtx
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		append(
			chromedp.DefaultExecAllocatorOptions[:],
			// the user has to see the SSO page to log in
			chromedp.Flag("headless", false),
			chromedp.Flag("start-maximized", true),
		)...,
	)
	a.allocCancel = allocCancel
	a.browserCtx, a.browserCancel = chromedp.NewContext(allocCtx)
	return a.browserCtx
}

// Acquire returns a live PHPSESSID, walking the user through the SSO
// login first if the browser isn't already authenticated.
func (a *Acquirer) Acquire(ctx context.Context) (string, error) {
	browserCtx := a.browser()

	runCtx, cancel := context.WithTimeout(browserCtx, a.opts.LoginBudget)
	defer cancel()
	go func() {
		// caller-side cancellation still applies while the user
		// is busy with the SSO page
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var content string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(a.opts.BaseURL+"/home.php"),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &content),
	)
	if err != nil {
		return "", err
	}

	if strings.Contains(content, "myitsauth.php") {
		err = chromedp.Run(runCtx, chromedp.Navigate(a.opts.BaseURL+loginPath))
		if err != nil {
			return "", err
		}
		err = a.waitForLogin(runCtx)
		if err != nil {
			return "", err
		}
	}

	return a.sessionCookie(runCtx)
}

// the SSO flow bounces through urls outside the portal. login is done
// once the browser lands back on a portal page that is not the login
// endpoint.
func (a *Acquirer) waitForLogin(ctx context.Context) error {
	for {
		var location string
		err := chromedp.Run(ctx, chromedp.Location(&location))
		if err != nil {
			return err
		}
		if strings.Contains(location, a.opts.BaseURL) &&
			!strings.Contains(location, loginPath) {
			return nil
		}

		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Acquirer) sessionCookie(ctx context.Context) (string, error) {
	var value string
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, cookie := range cookies {
			if cookie.Name == "PHPSESSID" {
				value = cookie.Value
				return nil
			}
		}
		return ErrNoSessionCookie
	}))
	if err != nil {
		return "", err
	}
	return value, nil
}

// Release closes the browser. the next Acquire launches a fresh one.
func (a *Acquirer) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browserCancel != nil {
		a.browserCancel()
		a.browserCancel = nil
		a.browserCtx = nil
	}
	if a.allocCancel != nil {
		a.allocCancel()
		a.allocCancel = nil
	}
	return nil
}
