//go:build unix

package supervisor

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// relayedSignals are forwarded to the child instead of terminating hcp.
var relayedSignals = []os.Signal{unix.SIGTERM, unix.SIGINT}

// kill delivers a signal to a pid. Replaced in tests.
var kill = unix.Kill

type relayState int

const (
	relayWaiting  relayState = iota // no child yet; signals are queued
	relayAttached                   // signals go to pid
	relayDetached                   // child reaped; signals are swallowed
)

// Relay intercepts SIGTERM and SIGINT for the lifetime of a run and
// forwards them to the child while it is running. Signals that arrive
// before the child exists are queued and delivered on Attach. Signals
// that arrive after Detach are dropped, so hcp itself keeps running until
// Close.
type Relay struct {
	signals chan os.Signal
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once

	mu      sync.Mutex
	state   relayState
	pid     int
	pending []syscall.Signal
}

// NewRelay starts intercepting the relayed signals.
func NewRelay() *Relay {
	r := &Relay{
		signals: make(chan os.Signal, 4),
		done:    make(chan struct{}),
	}
	signal.Notify(r.signals, relayedSignals...)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case sig := <-r.signals:
				if s, ok := sig.(syscall.Signal); ok {
					r.handle(s)
				}
			case <-r.done:
				return
			}
		}
	}()
	return r
}

func (r *Relay) handle(sig syscall.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case relayWaiting:
		r.pending = append(r.pending, sig)
	case relayAttached:
		_ = kill(r.pid, sig)
	}
}

// Attach directs signals to pid and delivers any queued ones.
func (r *Relay) Attach(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != relayWaiting {
		return
	}
	r.state = relayAttached
	r.pid = pid
	for _, sig := range r.pending {
		_ = kill(pid, sig)
	}
	r.pending = nil
}

// Detach stops forwarding. It must be called once the child is reaped so
// a reused pid never receives a signal.
func (r *Relay) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = relayDetached
	r.pid = 0
	r.pending = nil
}

// Close restores default signal handling. Safe to call more than once.
func (r *Relay) Close() {
	r.once.Do(func() {
		signal.Stop(r.signals)
		close(r.done)
		r.wg.Wait()
	})
}

func terminatingSignal(state *os.ProcessState) string {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ws.Signal().String()
	}
	return ""
}
