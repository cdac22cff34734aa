//go:build e2e

package e2e

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thesyncim/meetingwidget/pkg/browser"
)

func TestMain(m *testing.M) {
	code := m.Run()

	// Safety net for panics or os.Exit where Close didn't run.
	browser.KillOrphans()

	os.Exit(code)
}

func TestMeetingWidget(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Meeting Widget Suite")
}
