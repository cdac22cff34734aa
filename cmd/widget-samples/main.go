// Meeting widget samples stand-in
//
// Serves the samples app, the meeting widget page, the widget's media
// endpoint and a fake collaboration platform API. Point a browser at it to
// click through the widget by hand, or set WIDGET_SAMPLES_URL to its address
// to run the e2e suite against a long-lived instance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thesyncim/meetingwidget/cmd/widget-samples/server"
	"github.com/thesyncim/meetingwidget/pkg/config"
	"github.com/thesyncim/meetingwidget/pkg/log"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.Init(appCfg.LogLevel)

	cfg := server.DefaultConfig()
	cfg.Addr = *addr
	if appCfg.ClientID != "" {
		cfg.ClientID = appCfg.ClientID
	}
	if appCfg.ClientSecret != "" {
		cfg.ClientSecret = appCfg.ClientSecret
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if _, err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Printf(`
Meeting Widget Samples
======================
1. Open %[1]s
2. Paste an access token and save it
3. Open the Meeting Widget sample, enter a destination, load the widget

Platform API: %[1]s/v1
`, srv.URL())
	log.Infof("Listening on %s", srv.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("Received %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown: %v", err)
	}
}
