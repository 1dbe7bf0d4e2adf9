// Package shutdown turns termination signals into a callback.
package shutdown

import (
	"os"
	"os/signal"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, signals...)
}

// OnSignal calls fn once on the first termination signal. The returned stop
// function unregisters the handler.
func OnSignal(fn func(os.Signal)) (stop func()) {
	ch := make(chan os.Signal, 1)
	Notify(ch)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			fn(sig)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
