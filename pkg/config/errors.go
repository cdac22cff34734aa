package config

import "errors"

var (
	ErrMissingAccessToken = errors.New("access token is required (set WEBEX_ACCESS_TOKEN or provide client credentials to provision a test user)")
	ErrMissingDestination = errors.New("meeting destination is required (set WEBEX_MEETING_DESTINATION or allow a room to be created)")
)
