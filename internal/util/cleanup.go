package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InterruptContext is cancelled on SIGINT or SIGTERM. Once it is done the
// default handlers are restored, so a second signal kills the process.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

// RemoveIfEmpty deletes dir when it has no entries and reports whether it
// did.
func RemoveIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return false
	}

	return os.Remove(dir) == nil
}
