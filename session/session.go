package session

import (
	"sync"

	kitlog "github.com/go-kit/kit/log"

	"github.com/caba-llero/pytellite/config"
)

// State is a streaming session's position in the WaitingForConfig ->
// Computing -> Idle/Closed state machine (§4.5).
type State int

const (
	WaitingForConfig State = iota
	Computing
	Idle
	Closed
)

func (s State) String() string {
	switch s {
	case WaitingForConfig:
		return "waiting_for_config"
	case Computing:
		return "computing"
	case Idle:
		return "idle"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type commandKind int

const (
	cmdConfigure commandKind = iota
	cmdPause
	cmdResume
	cmdStop
)

type command struct {
	kind    commandKind
	payload map[string]interface{}
}

// Outcome is what a streaming session emits after a configure: either a
// successful Result or an error message, never both.
type Outcome struct {
	Result *Result
	Err    error
}

// Session pairs a receiver (whatever reads the transport, e.g. the
// server package's WS handler) with a worker goroutine that waits for a
// configure command and runs Compute. Commands and outcomes flow over
// plain channels rather than shared mutable flags.
type Session struct {
	defaults config.SimulationConfig
	logger   kitlog.Logger

	cmds     chan command
	outcomes chan Outcome
	done     chan struct{}

	mu    sync.Mutex
	state State

	wg sync.WaitGroup
}

// New creates a Session against the given defaults. Call Run once to start
// the worker goroutine, then Configure/Pause/Resume/Stop from the receiver
// side.
func New(defaults config.SimulationConfig, logger kitlog.Logger) *Session {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Session{
		defaults: defaults,
		logger:   logger,
		cmds:     make(chan command, 4),
		outcomes: make(chan Outcome, 1),
		done:     make(chan struct{}),
		state:    WaitingForConfig,
	}
}

// Outcomes returns the channel on which Outcome values are delivered, one
// per honored Configure call.
func (s *Session) Outcomes() <-chan Outcome { return s.outcomes }

// State returns the session's current state machine position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Configure latches a configuration and unblocks the compute task (§4.5).
// Safe to call repeatedly; each call triggers exactly one Outcome.
func (s *Session) Configure(payload map[string]interface{}) {
	select {
	case s.cmds <- command{kind: cmdConfigure, payload: payload}:
	case <-s.done:
	}
}

// Pause and Resume are accepted for protocol compatibility but have no
// effect in the pre-compute (batch) mode; they only matter for the legacy
// incremental-stepping mode this core does not implement (§4.5, §9).
func (s *Session) Pause() {
	select {
	case s.cmds <- command{kind: cmdPause}:
	case <-s.done:
	}
}

func (s *Session) Resume() {
	select {
	case s.cmds <- command{kind: cmdResume}:
	case <-s.done:
	}
}

// Stop terminates the session; any in-flight compute result is discarded
// rather than forcibly cancelled (§5 — compute is synchronous CPU work,
// there is nothing to preempt mid-call).
func (s *Session) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.setState(Closed)
}

// Run drives the worker loop until Stop is called or the command channel
// is abandoned. It is intended to run in its own goroutine, joined with
// the receiver per §5's "two cooperative tasks" model.
func (s *Session) Run() {
	s.wg.Add(1)
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.cmds:
			switch cmd.kind {
			case cmdConfigure:
				s.handleConfigure(cmd.payload)
			case cmdPause, cmdResume:
				s.logger.Log("level", "debug", "subsys", "session", "msg", "pause/resume accepted, no-op in batch mode")
			case cmdStop:
				return
			}
		}
	}
}

func (s *Session) handleConfigure(payload map[string]interface{}) {
	s.setState(Computing)
	s.logger.Log("level", "info", "subsys", "session", "msg", "configure received")

	merged := config.Merge(s.defaults, payload)
	result, err := Compute(merged)

	var outcome Outcome
	if err != nil {
		s.logger.Log("level", "warn", "subsys", "session", "msg", "compute failed", "err", err)
		outcome = Outcome{Err: err}
	} else {
		s.logger.Log("level", "info", "subsys", "session", "msg", "compute finished",
			"num_integration_points", result.Metrics.NumIntegrationPoints)
		outcome = Outcome{Result: &result}
	}

	s.setState(Idle)
	select {
	case s.outcomes <- outcome:
	case <-s.done:
		return
	}
}

// Wait blocks until the worker goroutine started by Run has exited.
func (s *Session) Wait() { s.wg.Wait() }
