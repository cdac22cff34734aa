//go:build e2e

package e2e

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thesyncim/meetingwidget/cmd/widget-samples/server"
	"github.com/thesyncim/meetingwidget/pkg/browser"
	"github.com/thesyncim/meetingwidget/pkg/config"
	"github.com/thesyncim/meetingwidget/pkg/log"
	"github.com/thesyncim/meetingwidget/pkg/provision"
	"github.com/thesyncim/meetingwidget/pkg/widget"
	"github.com/thesyncim/meetingwidget/pkg/widget/dom"
)

var _ = Describe("Meeting Widget", Ordered, func() {
	var (
		cfg     config.Config
		local   *server.Server
		fixture *provision.Fixture
		client  *browser.Client
		samples *widget.SamplesPage
		meeting *widget.MeetingPage
	)

	BeforeAll(func() {
		var err error
		cfg, err = config.Load()
		Expect(err).NotTo(HaveOccurred())
		log.Init(cfg.LogLevel)
		SetDefaultEventuallyTimeout(cfg.UITimeout)
		SetDefaultEventuallyPollingInterval(100 * time.Millisecond)

		samplesURL := cfg.SamplesURL
		if cfg.UsesLocalSamples() {
			local, err = server.NewServer(server.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			_, err = local.Start()
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return local.Shutdown(ctx)
			})
			samplesURL = local.URL()
			if cfg.ClientID == "" {
				cfg = cfg.WithLocalPlatform(samplesURL)
			}
			GinkgoWriter.Printf("samples stand-in on %s\n", samplesURL)
		}

		By("provisioning the access token and meeting destination")
		setupCtx, cancel := context.WithTimeout(context.Background(), cfg.SetupTimeout)
		defer cancel()
		fixture = provision.Setup(setupCtx, cfg, provision.NewDeps(cfg))
		DeferCleanup(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.SetupTimeout)
			defer cancel()
			return fixture.Teardown(ctx)
		})
		Expect(fixture.AccessToken).NotTo(BeEmpty(), "no access token: %v", config.ErrMissingAccessToken)
		Expect(fixture.Destination).NotTo(BeEmpty(), "no meeting destination: %v", config.ErrMissingDestination)

		By("opening the meeting sample")
		client, err = browser.NewClient(browser.Config{Headless: cfg.Headless, Timeout: cfg.NavTimeout})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Close)
		page, err := client.Navigate("about:blank")
		Expect(err).NotTo(HaveOccurred())

		samples = widget.NewSamplesPage(page, dom.Default(), cfg.UITimeout, cfg.NavTimeout)
		meeting = widget.NewMeetingPage(page, dom.Default(), cfg.UITimeout)

		Expect(samples.Open(samplesURL)).To(Succeed())
		Expect(samples.SetAccessToken(fixture.AccessToken)).To(Succeed())
		Expect(samples.NavigateToMeetingPage()).To(Succeed())
		Expect(meeting.Destination.SetValue(fixture.Destination)).To(Succeed())
		Expect(samples.SetAdapterLogLevel("debug")).To(Succeed())
	})

	Describe("Join meeting with audio/video off", func() {
		BeforeAll(func() {
			Expect(meeting.LoadWidget()).To(Succeed())
		})

		AfterAll(func() {
			Expect(meeting.UnloadWidget()).To(Succeed())
		})

		It("has the correct page title", func() {
			Expect(samples.WidgetTitle.Text()).To(Equal(dom.WidgetTitle))
		})

		It("loads", func() {
			Eventually(meeting.MeetingInfo).Should(BeDisplayed())
		})

		It("displays the control bar", func() {
			Eventually(meeting.ControlBar).Should(BeVisible())
		})

		It("mutes audio before joining meeting", func() {
			Expect(meeting.MuteAudioBtn.Click()).To(Succeed())
			Eventually(meeting.MuteAudioBtn).ShouldNot(BeVisible())
			Eventually(meeting.UnmuteAudioBtn).Should(BeVisible())
		})

		It("mutes video before joining meeting", func() {
			Expect(meeting.MuteVideoBtn.Click()).To(Succeed())
			Eventually(meeting.MuteVideoBtn).ShouldNot(BeVisible())
			Eventually(meeting.UnmuteVideoBtn).Should(BeVisible())
		})

		It(`displays "Waiting for others" after joining meeting`, func() {
			Expect(meeting.WaitingForOthers).NotTo(Exist())
			Expect(meeting.JoinMeetingBtn.Click()).To(Succeed())
			Expect(meeting.WaitingForOthers.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Expect(meeting.WaitingForOthers).To(BeVisible())
			Expect(meeting.MeetingError).NotTo(Exist())
		})

		It("keeps the local streams muted after join", func() {
			Expect(meeting.UnmuteAudioBtn).To(BeVisible())
			Expect(meeting.UnmuteVideoBtn).To(BeVisible())
		})

		It("unmutes audio after joining meeting", func() {
			Expect(meeting.UnmuteAudioBtn.Click()).To(Succeed())
			Expect(meeting.MuteAudioBtn.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Eventually(meeting.UnmuteAudioBtn).ShouldNot(BeVisible())
			Expect(meeting.MuteAudioBtn).To(BeVisible())
		})

		It("unmutes video after joining meeting", func() {
			Expect(meeting.UnmuteVideoBtn.Click()).To(Succeed())
			Expect(meeting.MuteVideoBtn.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Eventually(meeting.UnmuteVideoBtn).ShouldNot(BeVisible())
			Expect(meeting.MuteVideoBtn).To(BeVisible())
		})

		It("leaves the meeting", func() {
			Expect(meeting.LeaveMeetingBtn.Click()).To(Succeed())
			Expect(meeting.MeetingWidget.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Eventually(meeting.MeetingWidget).Should(HaveTextContaining(dom.LeftMeetingText))
		})

		It("doesn't display any control after leaving the meeting", func() {
			Expect(meeting.ControlBar).NotTo(BeVisible())
		})
	})

	Describe("Join meeting with audio/video on", func() {
		BeforeAll(func() {
			Expect(meeting.LoadWidget()).To(Succeed())
		})

		AfterAll(func() {
			Expect(meeting.UnloadWidget()).To(Succeed())
		})

		It(`displays "Waiting for others" after joining meeting`, func() {
			Expect(meeting.WaitingForOthers).NotTo(Exist())
			Expect(meeting.JoinMeetingBtn.Click()).To(Succeed())
			Expect(meeting.WaitingForOthers.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Expect(meeting.WaitingForOthers).To(BeVisible())
			Expect(meeting.MeetingError).NotTo(Exist())
		})

		It("mutes audio after joining meeting", func() {
			Expect(meeting.MuteAudioBtn.Click()).To(Succeed())
			Expect(meeting.UnmuteAudioBtn.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Eventually(meeting.MuteAudioBtn).ShouldNot(BeVisible())
			Expect(meeting.UnmuteAudioBtn).To(BeVisible())
		})

		It("mutes video after joining meeting", func() {
			Expect(meeting.MuteVideoBtn.Click()).To(Succeed())
			Expect(meeting.UnmuteVideoBtn.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Eventually(meeting.MuteVideoBtn).ShouldNot(BeVisible())
			Expect(meeting.UnmuteVideoBtn).To(BeVisible())
		})

		It("leaves the meeting", func() {
			Expect(meeting.LeaveMeetingBtn.Click()).To(Succeed())
			Expect(meeting.MeetingWidget.WaitForDisplayed(cfg.UITimeout)).To(Succeed())
			Eventually(meeting.MeetingWidget).Should(HaveTextContaining(dom.LeftMeetingText))
		})
	})
})
