// Package lifecycle drives one hcp run: start ping, child process, output
// capture, finish or fail ping, and the resulting exit code.
package lifecycle

import (
	"fmt"

	"github.com/vertti/hcp/pkg/capture"
	"github.com/vertti/hcp/pkg/config"
	"github.com/vertti/hcp/pkg/exitcode"
	"github.com/vertti/hcp/pkg/output"
	"github.com/vertti/hcp/pkg/supervisor"
)

// NoCommandMessage is reported when hcp is invoked without a command.
const NoCommandMessage = "No command given"

// Reporter delivers pings to the healthcheck service.
type Reporter interface {
	Start() error
	Finish(body string) error
	Fail(body string, code *int) error
}

// Process is a spawned child that can be waited on once.
type Process interface {
	Wait() (supervisor.Result, error)
}

// Spawner starts child processes.
type Spawner interface {
	Spawn(argv, env []string) (Process, error)
}

// SupervisorSpawner adapts a supervisor.Supervisor to Spawner.
type SupervisorSpawner struct {
	Supervisor *supervisor.Supervisor
}

// Spawn starts the child through the wrapped supervisor.
func (s SupervisorSpawner) Spawn(argv, env []string) (Process, error) {
	child, err := s.Supervisor.Spawn(argv, env)
	if err != nil {
		return nil, err
	}
	return child, nil
}

// State is a step of the run.
type State int

const (
	StateStart State = iota
	StateNoCommand
	StateSpawning
	StateRunning
	StateReporting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateNoCommand:
		return "no-command"
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator runs the lifecycle once.
type Orchestrator struct {
	Config   *config.RunConfig
	Reporter Reporter
	Spawner  Spawner
	Out      *output.Printer

	state State
	path  []State
}

// Run executes the lifecycle and returns the exit outcome. Terminal
// failures print one diagnostic line and skip the remaining steps.
func (o *Orchestrator) Run() exitcode.Outcome {
	o.enter(StateStart)

	if !o.Config.HasCommand() {
		o.enter(StateNoCommand)
		o.Out.Infof(NoCommandMessage)
		o.enter(StateReporting)
		return o.report(Report{Body: NoCommandMessage, Outcome: exitcode.Success})
	}

	if err := o.Reporter.Start(); err != nil {
		return o.abort(exitcode.HTTPFailure, err)
	}

	o.enter(StateSpawning)
	proc, err := o.Spawner.Spawn(o.Config.Command, o.Config.Env)
	if err != nil {
		return o.abort(exitcode.SpawnFailure, err)
	}

	o.enter(StateRunning)
	res, err := proc.Wait()
	if err != nil {
		return o.abort(exitcode.IOFailure, err)
	}

	o.enter(StateReporting)
	if res.Truncated {
		o.Out.Warnf("output truncated: reporting %d of %d bytes", len(res.Output), res.Total)
	}
	if !res.HasCode && !o.Config.IgnoreCode {
		o.Out.Errorf("%s: command exited without an exit code%s", exitcode.NoExitCode, signalSuffix(res.Signal))
	}
	return o.report(Classify(res, o.Config.IgnoreCode))
}

// State returns the current step.
func (o *Orchestrator) State() State {
	return o.state
}

// Path returns every step entered so far, in order.
func (o *Orchestrator) Path() []State {
	return append([]State(nil), o.path...)
}

func (o *Orchestrator) enter(s State) {
	o.state = s
	o.path = append(o.path, s)
}

// report sends the finish or fail ping. A delivery failure overrides the
// planned outcome.
func (o *Orchestrator) report(r Report) exitcode.Outcome {
	var err error
	if r.Fail {
		err = o.Reporter.Fail(r.Body, r.Code)
	} else {
		err = o.Reporter.Finish(r.Body)
	}
	if err != nil {
		return o.abort(exitcode.HTTPFailure, err)
	}
	o.enter(StateDone)
	return r.Outcome
}

func (o *Orchestrator) abort(kind exitcode.Fixed, err error) exitcode.Outcome {
	o.Out.Errorf("%s: %v", kind, err)
	o.enter(StateDone)
	return kind
}

// Report is the ping to send after the child finished.
type Report struct {
	Fail    bool
	Code    *int // appended to the fail path when set
	Body    string
	Outcome exitcode.Outcome
}

// Classify maps a child result to its ping and exit outcome. The captured
// output is trimmed of trailing whitespace for the body, and of a character
// split by the capture limit so the body stays valid UTF-8.
func Classify(res supervisor.Result, ignoreCode bool) Report {
	out := res.Output
	if res.Truncated {
		out = capture.TrimPartialRune(out)
	}
	body := capture.TrimTrailing(out)
	switch {
	case ignoreCode:
		return Report{Body: body, Outcome: exitcode.Success}
	case res.HasCode && res.Code == 0:
		return Report{Body: body, Outcome: exitcode.Success}
	case res.HasCode:
		code := res.Code
		return Report{Fail: true, Code: &code, Body: body, Outcome: exitcode.ChildCode(code)}
	default:
		return Report{Fail: true, Body: body, Outcome: exitcode.NoExitCode}
	}
}

func signalSuffix(sig string) string {
	if sig == "" {
		return ""
	}
	return " (signal: " + sig + ")"
}
