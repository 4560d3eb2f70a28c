package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mobile-next/hidcli/cli"
	"github.com/mobile-next/hidcli/commands"
	"github.com/mobile-next/hidcli/devices"
)

// signalGracePeriod is how long a running command gets to unwind after
// SIGINT/SIGTERM before we exit anyway. Streaming commands cancel their
// context on signal and finish on their own within this window.
const signalGracePeriod = 5 * time.Second

func main() {
	// create device registry for cleanup tracking
	registry := devices.NewRegistry()
	commands.SetRegistry(registry)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		select {
		case <-done:
		case <-time.After(signalGracePeriod):
		}
		registry.CleanupAll()
		os.Exit(0)
	case err := <-done:
		registry.CleanupAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
