//go:build !unix

package supervisor

import "os"

// Relay is a no-op where signals cannot be forwarded to another process.
type Relay struct{}

// NewRelay returns a no-op Relay.
func NewRelay() *Relay { return &Relay{} }

func (r *Relay) Attach(pid int) {}

func (r *Relay) Detach() {}

func (r *Relay) Close() {}

func terminatingSignal(state *os.ProcessState) string { return "" }
