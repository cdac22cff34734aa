// Fixture provisioning tool.
//
// Creates the test user and/or room a meeting widget run needs, prints them as
// shell exports, then holds them until interrupted and tears them down.
// Values already present in WEBEX_ACCESS_TOKEN / WEBEX_MEETING_DESTINATION are
// reused, not provisioned.
//
// Usage:
//
//	go run ./cmd/provision                 # hold until Ctrl-C
//	go run ./cmd/provision -hold 30m       # hold for 30 minutes
//	go run ./cmd/provision -hold 0 -keep   # print and leave the fixtures behind
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thesyncim/meetingwidget/pkg/config"
	"github.com/thesyncim/meetingwidget/pkg/log"
	"github.com/thesyncim/meetingwidget/pkg/provision"
)

func main() {
	hold := flag.Duration("hold", -1, "How long to keep the fixtures (negative: until interrupted)")
	keep := flag.Bool("keep", false, "Skip teardown")
	envFile := flag.String("env", ".env", "Dotenv file to load before the environment")
	flag.Parse()

	cfg, err := config.LoadFile(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.InitWithOutput(cfg.LogLevel, os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nReceived %v, tearing down...\n", sig)
		cancel()
	}()

	setupCtx, setupCancel := context.WithTimeout(ctx, cfg.SetupTimeout)
	fixture := provision.Setup(setupCtx, cfg, provision.NewDeps(cfg))
	setupCancel()
	if err := fixture.Require(); err != nil {
		fmt.Fprintf(os.Stderr, "provisioning failed: %v\n", err)
		teardown(fixture, cfg.SetupTimeout)
		os.Exit(1)
	}

	fmt.Printf("export WEBEX_ACCESS_TOKEN=%s\n", fixture.AccessToken)
	fmt.Printf("export WEBEX_MEETING_DESTINATION=%s\n", fixture.Destination)

	if *keep {
		return
	}

	wait(ctx, *hold)
	if !teardown(fixture, cfg.SetupTimeout) {
		os.Exit(1)
	}
}

func wait(ctx context.Context, hold time.Duration) {
	if hold < 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTimer(hold)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// teardown removes the fixtures, trying the user removal once more after a
// failure.
func teardown(f *provision.Fixture, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for attempt := 1; attempt <= 2; attempt++ {
		err := f.Teardown(ctx)
		if err == nil {
			return true
		}
		log.Errorf("teardown attempt %d: %v", attempt, err)
	}
	return false
}
