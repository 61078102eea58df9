// Package supervisor runs the wrapped command, captures its output through
// pipes and relays termination signals to it.
package supervisor

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/vertti/hcp/pkg/capture"
)

// Result describes how the child ended and what it printed.
type Result struct {
	HasCode   bool   // false when the child was terminated without a code
	Code      int    // exit code, valid when HasCode
	Signal    string // terminating signal on unix, if any
	Output    string // captured combined output, untrimmed
	Truncated bool   // capture buffer reached capacity
	Total     int64  // bytes the child wrote, including discarded ones
}

// Supervisor spawns child processes. The zero value captures without tee
// and inherits os.Stdin.
type Supervisor struct {
	Tee      bool      // mirror child output to Stdout/Stderr
	Stdin    io.Reader // defaults to os.Stdin
	Stdout   io.Writer // defaults to os.Stdout
	Stderr   io.Writer // defaults to os.Stderr
	Capacity int       // capture capacity; defaults to capture.DefaultCapacity

	// Relay, when set, is the run-wide signal relay the child is attached
	// to. Without it each child gets its own relay, closed by Wait.
	Relay *Relay
}

// Child is a running process started by Spawn.
type Child struct {
	cmd       *exec.Cmd
	relay     *Relay
	ownsRelay bool
	buffer    *capture.Buffer
	tees      []*capture.Tee
	pipes     []*os.File
}

// Spawn starts argv[0] with the remaining arguments and exactly env as its
// environment. Standard input is inherited; output goes to pipes that Wait
// drains.
func (s *Supervisor) Spawn(argv, env []string) (*Child, error) {
	if len(argv) == 0 {
		return nil, &SpawnError{Err: errors.New("empty command")}
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, &SpawnError{Command: argv[0], Err: err}
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		closeAll(outR, outW)
		return nil, &SpawnError{Command: argv[0], Err: err}
	}

	// #nosec G204 -- running the user's command is the purpose of hcp.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append([]string{}, env...)
	cmd.Stdin = s.stdin()
	cmd.Stdout = outW
	cmd.Stderr = errW

	// Signals arriving before Start are queued and relayed once the pid
	// is known.
	r, owns := s.Relay, false
	if r == nil {
		r, owns = NewRelay(), true
	}
	if err := cmd.Start(); err != nil {
		if owns {
			r.Close()
		}
		closeAll(outR, outW, errR, errW)
		return nil, &SpawnError{Command: argv[0], Err: err}
	}
	// The child holds its own copies of the write ends.
	closeAll(outW, errW)
	r.Attach(cmd.Process.Pid)

	capacity := s.Capacity
	if capacity == 0 {
		capacity = capture.DefaultCapacity
	}
	buf := capture.NewBuffer(capacity)

	var outPass, errPass io.Writer
	if s.Tee {
		outPass, errPass = s.stdout(), s.stderr()
	}

	return &Child{
		cmd:       cmd,
		relay:     r,
		ownsRelay: owns,
		buffer:    buf,
		tees: []*capture.Tee{
			{Name: "stdout", Source: outR, Passthrough: outPass, Buffer: buf},
			{Name: "stderr", Source: errR, Passthrough: errPass, Buffer: buf},
		},
		pipes: []*os.File{outR, errR},
	}, nil
}

// Pid returns the child's process id.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Wait runs both capture loops, waits for the child to exit and returns
// only after both loops have finished. It must be called exactly once.
func (c *Child) Wait() (Result, error) {
	errs := make([]error, len(c.tees))
	var wg sync.WaitGroup
	for i, tee := range c.tees {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Closing on failure makes further child writes fail instead of
			// blocking on a full pipe.
			defer func() { _ = c.pipes[i].Close() }()
			errs[i] = tee.Run()
		}()
	}

	waitErr := c.cmd.Wait()
	c.relay.Detach()
	wg.Wait()
	if c.ownsRelay {
		c.relay.Close()
	}

	for i, err := range errs {
		if err != nil {
			return Result{}, &IOError{Stream: c.tees[i].Name, Err: err}
		}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Result{}, &IOError{Stream: "process", Err: waitErr}
		}
	}

	res := Result{
		Output:    c.buffer.String(),
		Truncated: c.buffer.Truncated(),
		Total:     c.buffer.Total(),
	}
	state := c.cmd.ProcessState
	if code := state.ExitCode(); code >= 0 {
		res.HasCode = true
		res.Code = code
	} else {
		res.Signal = terminatingSignal(state)
	}
	return res, nil
}

func (s *Supervisor) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}
	return os.Stdin
}

func (s *Supervisor) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}

func (s *Supervisor) stderr() io.Writer {
	if s.Stderr != nil {
		return s.Stderr
	}
	return os.Stderr
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
