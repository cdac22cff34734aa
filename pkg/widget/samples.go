// Package widget holds page objects for the meeting widget samples app.
package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/thesyncim/meetingwidget/pkg/widget/dom"
)

// SamplesPage is the samples app landing page: token entry and navigation to
// the individual widget samples.
type SamplesPage struct {
	page       *rod.Page
	navTimeout time.Duration

	AccessToken Element
	SaveToken   Element
	MeetingLink Element
	WidgetTitle Element
}

// NewSamplesPage binds the samples landing page elements on page.
func NewSamplesPage(page *rod.Page, sel dom.Selectors, timeout, navTimeout time.Duration) *SamplesPage {
	return &SamplesPage{
		page:        page,
		navTimeout:  navTimeout,
		AccessToken: newElement(page, "access token input", sel.AccessToken, timeout),
		SaveToken:   newElement(page, "save token button", sel.SaveToken, timeout),
		MeetingLink: newElement(page, "meeting widget link", sel.MeetingLink, timeout),
		WidgetTitle: newElement(page, "widget title", sel.WidgetTitle, timeout),
	}
}

// Open loads the samples app at baseURL.
func (p *SamplesPage) Open(baseURL string) error {
	url := strings.TrimRight(baseURL, "/") + "/"
	if err := p.page.Timeout(p.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("failed to open samples at %s: %w", url, err)
	}
	if err := p.page.Timeout(p.navTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("samples page did not load: %w", err)
	}
	return nil
}

// SetAccessToken enters and saves the token the widgets authenticate with.
func (p *SamplesPage) SetAccessToken(token string) error {
	if err := p.AccessToken.SetValue(token); err != nil {
		return err
	}
	return p.SaveToken.Click()
}

// NavigateToMeetingPage opens the meeting widget sample.
func (p *SamplesPage) NavigateToMeetingPage() error {
	if err := p.MeetingLink.Click(); err != nil {
		return err
	}
	return p.WidgetTitle.WaitForDisplayed(p.navTimeout)
}

// SetAdapterLogLevel sets the SDK adapter log level through the global the
// samples app exposes.
func (p *SamplesPage) SetAdapterLogLevel(level string) error {
	js := fmt.Sprintf(`(level) => window.%s(level)`, dom.LogLevelFunc)
	if _, err := p.page.Eval(js, level); err != nil {
		return fmt.Errorf("failed to set adapter log level: %w", err)
	}
	return nil
}
