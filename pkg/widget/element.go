package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/meetingwidget/internal/clock"
)

const pollInterval = 100 * time.Millisecond

// Element is a lazily resolved handle on the first node matching a selector.
// Every call queries the DOM again, so an Element stays valid across
// re-renders.
type Element struct {
	name     string
	selector string
	page     *rod.Page
	timeout  time.Duration
	clock    clock.Clock
}

func newElement(page *rod.Page, name, selector string, timeout time.Duration) Element {
	return Element{
		name:     name,
		selector: selector,
		page:     page,
		timeout:  timeout,
		clock:    clock.Real{},
	}
}

func (e Element) Name() string     { return e.name }
func (e Element) Selector() string { return e.selector }

// resolve waits up to the element timeout for the node to exist.
func (e Element) resolve() (*rod.Element, error) {
	el, err := e.page.Timeout(e.timeout).Element(e.selector)
	if err != nil {
		return nil, fmt.Errorf("%s (%s) not found: %w", e.name, e.selector, err)
	}
	return el.CancelTimeout(), nil
}

// Exists reports whether the node is in the DOM right now.
func (e Element) Exists() (bool, error) {
	has, _, err := e.page.Has(e.selector)
	if err != nil {
		return false, fmt.Errorf("%s: %w", e.name, err)
	}
	return has, nil
}

// IsDisplayed reports whether the node exists and is rendered with a box.
func (e Element) IsDisplayed() (bool, error) {
	_, displayed, err := e.displayed()
	return displayed, err
}

// IsVisible is IsDisplayed plus a non-zero computed opacity.
func (e Element) IsVisible() (bool, error) {
	el, displayed, err := e.displayed()
	if err != nil || !displayed {
		return false, err
	}
	res, err := el.Eval(`() => getComputedStyle(this).opacity`)
	if detached(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", e.name, err)
	}
	return res.Value.Str() != "0", nil
}

// displayed resolves the node once and checks its box on that same node.
// A node removed between the lookup and the check is not displayed.
func (e Element) displayed() (*rod.Element, bool, error) {
	has, el, err := e.page.Has(e.selector)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", e.name, err)
	}
	if !has || el == nil {
		return nil, false, nil
	}
	visible, err := el.Visible()
	if detached(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", e.name, err)
	}
	return el, visible, nil
}

// detached reports errors raised by a node or context that no longer exists.
func detached(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, &rod.ObjectNotFoundError{}) ||
		errors.Is(err, cdp.ErrObjNotFound) ||
		errors.Is(err, cdp.ErrCtxNotFound) ||
		errors.Is(err, cdp.ErrCtxDestroyed)
}

// Click waits for the node and clicks it.
func (e Element) Click() error {
	el, err := e.resolve()
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", e.name, err)
	}
	return nil
}

// SetValue replaces the content of an input.
func (e Element) SetValue(value string) error {
	el, err := e.resolve()
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clear %s: %w", e.name, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("type into %s: %w", e.name, err)
	}
	return nil
}

// Value returns the current value of an input.
func (e Element) Value() (string, error) {
	el, err := e.resolve()
	if err != nil {
		return "", err
	}
	res, err := el.Eval(`() => this.value`)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.name, err)
	}
	return res.Value.Str(), nil
}

// Text returns the rendered text of the node.
func (e Element) Text() (string, error) {
	el, err := e.resolve()
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.name, err)
	}
	return text, nil
}

// ContainsText reports whether the node's text contains substr.
func (e Element) ContainsText(substr string) (bool, error) {
	text, err := e.Text()
	if err != nil {
		return false, err
	}
	return strings.Contains(text, substr), nil
}

// WaitForDisplayed blocks until the node is displayed or timeout elapses.
func (e Element) WaitForDisplayed(timeout time.Duration) error {
	return e.waitFor(timeout, "displayed", func() (bool, error) {
		return e.IsDisplayed()
	})
}

// WaitForHidden blocks until the node is gone or not displayed.
func (e Element) WaitForHidden(timeout time.Duration) error {
	return e.waitFor(timeout, "hidden", func() (bool, error) {
		displayed, err := e.IsDisplayed()
		return !displayed, err
	})
}

// WaitForText blocks until the node's text contains substr.
func (e Element) WaitForText(substr string, timeout time.Duration) error {
	return e.waitFor(timeout, fmt.Sprintf("text %q", substr), func() (bool, error) {
		has, err := e.Exists()
		if err != nil || !has {
			return false, err
		}
		return e.ContainsText(substr)
	})
}

func (e Element) waitFor(timeout time.Duration, what string, cond func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Queries can fail transiently while the page navigates; keep polling
	// and report the last failure on timeout.
	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		lastErr = err
		if err := e.clock.Sleep(ctx, pollInterval); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%s (%s) not %s after %v: %w", e.name, e.selector, what, timeout, lastErr)
			}
			return fmt.Errorf("%s (%s) not %s after %v", e.name, e.selector, what, timeout)
		}
	}
}
