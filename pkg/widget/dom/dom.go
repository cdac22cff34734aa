// Package dom names the DOM contract of the meeting widget samples app. The
// page objects query these selectors and the local stand-in renders them.
package dom

// Selectors maps page-object accessors to CSS selectors.
type Selectors struct {
	AccessToken  string `json:"accessToken"`
	SaveToken    string `json:"saveToken"`
	MeetingLink  string `json:"meetingLink"`
	WidgetTitle  string `json:"widgetTitle"`
	Destination  string `json:"destination"`
	LoadWidget   string `json:"loadWidget"`
	UnloadWidget string `json:"unloadWidget"`

	MeetingWidget    string `json:"meetingWidget"`
	MeetingInfo      string `json:"meetingInfo"`
	ControlBar       string `json:"controlBar"`
	MuteAudio        string `json:"muteAudio"`
	UnmuteAudio      string `json:"unmuteAudio"`
	MuteVideo        string `json:"muteVideo"`
	UnmuteVideo      string `json:"unmuteVideo"`
	JoinMeeting      string `json:"joinMeeting"`
	LeaveMeeting     string `json:"leaveMeeting"`
	WaitingForOthers string `json:"waitingForOthers"`
	MeetingError     string `json:"meetingError"`
}

// Default is the selector set of the samples app.
func Default() Selectors {
	return Selectors{
		AccessToken:  "#access-token",
		SaveToken:    "#save-token",
		MeetingLink:  "#meeting-widget-link",
		WidgetTitle:  "h2.widget-title",
		Destination:  "#meeting-destination",
		LoadWidget:   "#load-widget",
		UnloadWidget: "#unload-widget",

		MeetingWidget:    ".wxc-meeting",
		MeetingInfo:      ".wxc-meeting-info",
		ControlBar:       ".wxc-meeting-control-bar",
		MuteAudio:        `button[aria-label="Mute audio"]`,
		UnmuteAudio:      `button[aria-label="Unmute audio"]`,
		MuteVideo:        `button[aria-label="Stop video"]`,
		UnmuteVideo:      `button[aria-label="Start video"]`,
		JoinMeeting:      `button[aria-label="Join meeting"]`,
		LeaveMeeting:     `button[aria-label="Leave meeting"]`,
		WaitingForOthers: ".wxc-waiting-for-others",
		MeetingError:     ".wxc-meeting-error",
	}
}

const (
	// WidgetTitle is the heading of the meeting widget sample.
	WidgetTitle = "Webex Meeting Widget"
	// WaitingForOthersText is shown once joined while alone in the meeting.
	WaitingForOthersText = "Waiting for others to join..."
	// LeftMeetingText is shown after leaving.
	LeftMeetingText = "You've successfully left the meeting"
	// JoinFailedText prefixes the error shown when a join is refused.
	JoinFailedText = "Unable to join the meeting"
	// LogLevelFunc is the global the samples app exposes for adapter logging.
	LogLevelFunc = "webexSDKAdapterSetLogLevel"
)
