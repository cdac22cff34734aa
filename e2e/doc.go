//go:build e2e

// Package e2e drives the meeting widget end to end in a real Chrome.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// With no environment set, the suite starts the samples stand-in from
// cmd/widget-samples/server and provisions a user and a room on its fake
// platform API. Setting WIDGET_SAMPLES_URL, WEBEX_ACCESS_TOKEN,
// WEBEX_MEETING_DESTINATION or WEBEX_CLIENT_ID/WEBEX_CLIENT_SECRET points the
// corresponding piece at a real deployment instead.
//
// E2E tests use:
//   - Rod for browser automation (Chrome DevTools Protocol)
//   - page objects from pkg/widget
//   - Ginkgo ordered containers, so specs run in the order they are written
package e2e
