package app

import (
	"os"
	"os/signal"

	"github.com/1ureka/udputil/internal/transport"
	"github.com/1ureka/udputil/internal/util"
)

// WatchSignals triggers sh whenever the process receives one of the
// platform's shutdown signals. SIGQUIT is left to the runtime's default
// handler. The returned function stops watching.
func WatchSignals(sh *transport.Shutdown) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-ch:
				util.LogWarning("%s", signalNotice(sig))
				sh.Trigger()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
