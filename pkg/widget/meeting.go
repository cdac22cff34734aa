package widget

import (
	"time"

	"github.com/go-rod/rod"

	"github.com/thesyncim/meetingwidget/pkg/widget/dom"
)

// MeetingPage is the meeting widget sample: destination entry, widget
// load/unload and the widget's own controls.
type MeetingPage struct {
	timeout time.Duration

	Destination      Element
	LoadBtn          Element
	UnloadBtn        Element
	MeetingWidget    Element
	MeetingInfo      Element
	ControlBar       Element
	MuteAudioBtn     Element
	UnmuteAudioBtn   Element
	MuteVideoBtn     Element
	UnmuteVideoBtn   Element
	JoinMeetingBtn   Element
	LeaveMeetingBtn  Element
	WaitingForOthers Element
	MeetingError     Element
}

// NewMeetingPage binds the meeting sample's elements on page.
func NewMeetingPage(page *rod.Page, sel dom.Selectors, timeout time.Duration) *MeetingPage {
	return &MeetingPage{
		timeout:          timeout,
		Destination:      newElement(page, "meeting destination input", sel.Destination, timeout),
		LoadBtn:          newElement(page, "load widget button", sel.LoadWidget, timeout),
		UnloadBtn:        newElement(page, "unload widget button", sel.UnloadWidget, timeout),
		MeetingWidget:    newElement(page, "meeting widget", sel.MeetingWidget, timeout),
		MeetingInfo:      newElement(page, "meeting info", sel.MeetingInfo, timeout),
		ControlBar:       newElement(page, "control bar", sel.ControlBar, timeout),
		MuteAudioBtn:     newElement(page, "mute audio button", sel.MuteAudio, timeout),
		UnmuteAudioBtn:   newElement(page, "unmute audio button", sel.UnmuteAudio, timeout),
		MuteVideoBtn:     newElement(page, "mute video button", sel.MuteVideo, timeout),
		UnmuteVideoBtn:   newElement(page, "unmute video button", sel.UnmuteVideo, timeout),
		JoinMeetingBtn:   newElement(page, "join meeting button", sel.JoinMeeting, timeout),
		LeaveMeetingBtn:  newElement(page, "leave meeting button", sel.LeaveMeeting, timeout),
		WaitingForOthers: newElement(page, "waiting for others", sel.WaitingForOthers, timeout),
		MeetingError:     newElement(page, "meeting error", sel.MeetingError, timeout),
	}
}

// LoadWidget mounts the widget for the current destination and waits for it
// to render.
func (p *MeetingPage) LoadWidget() error {
	if err := p.LoadBtn.Click(); err != nil {
		return err
	}
	return p.MeetingWidget.WaitForDisplayed(p.timeout)
}

// UnloadWidget unmounts the widget and waits for it to disappear.
func (p *MeetingPage) UnloadWidget() error {
	if err := p.UnloadBtn.Click(); err != nil {
		return err
	}
	return p.MeetingWidget.WaitForHidden(p.timeout)
}
