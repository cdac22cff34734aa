//go:build e2e

package e2e

import (
	"strings"

	"github.com/onsi/gomega/gcustom"
	"github.com/onsi/gomega/types"

	"github.com/thesyncim/meetingwidget/pkg/widget"
)

// Exist succeeds when the element is in the DOM.
func Exist() types.GomegaMatcher {
	return gcustom.MakeMatcher(func(e widget.Element) (bool, error) {
		return e.Exists()
	}).WithTemplate("Expected {{.Actual.Name}} ({{.Actual.Selector}}) {{.To}} exist")
}

// BeDisplayed succeeds when the element is rendered.
func BeDisplayed() types.GomegaMatcher {
	return gcustom.MakeMatcher(func(e widget.Element) (bool, error) {
		return e.IsDisplayed()
	}).WithTemplate("Expected {{.Actual.Name}} ({{.Actual.Selector}}) {{.To}} be displayed")
}

// BeVisible succeeds when the element is rendered and not transparent.
func BeVisible() types.GomegaMatcher {
	return gcustom.MakeMatcher(func(e widget.Element) (bool, error) {
		return e.IsVisible()
	}).WithTemplate("Expected {{.Actual.Name}} ({{.Actual.Selector}}) {{.To}} be visible")
}

// HaveTextContaining succeeds when the element's text contains substr.
func HaveTextContaining(substr string) types.GomegaMatcher {
	return gcustom.MakeMatcher(func(e widget.Element) (bool, error) {
		text, err := e.Text()
		if err != nil {
			return false, err
		}
		return strings.Contains(text, substr), nil
	}).WithTemplate("Expected {{.Actual.Name}} {{.To}} contain text {{.Data}}", substr)
}
