package utils

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandling invokes onShutdown once when the process receives
// SIGINT or SIGTERM.
func SetupSignalHandling(onShutdown func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		if onShutdown != nil {
			onShutdown()
		}
	}()
}
