// Package session owns the lifetime of the broadcast network of one trace
// session: it primes the network on start, retracts it on stop, and keeps a
// journal so that networks left by a crashed process can be retracted later.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/bcastnet/api"
	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/journal"
	"github.com/sarchlab/bcastnet/tracelog"
)

// State is the lifecycle state of a session.
type State int

const (
	// Idle sessions have no network on the device.
	Idle State = iota
	// Active sessions have a complete network on the device.
	Active
	// Failed sessions have a partially written network on the device. Only
	// Stop is allowed.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Active:
		return "Active"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrActive is returned when starting a session that is not idle.
	ErrActive = errors.New("session already has a network")
)

// Session configures and retracts the broadcast network of one session.
type Session struct {
	mu sync.Mutex

	id         string
	deviceName string
	device     bcast.Device
	md         bcast.Metadata
	ch1, ch2   bcast.Channel
	trigger    bcast.Event

	journal *journal.Journal
	trace   *tracelog.Writer
	driver  api.Driver

	state State
	phase string
	net   bcast.Network
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Network returns the network that is, or was last, on the device.
func (s *Session) Network() bcast.Network {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.net
}

// Start primes the network. The network is journaled before the first write,
// so a crash in the middle of the build leaves a record to recover from. On
// a configuration fault the session turns Failed and must be stopped.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return fmt.Errorf("%w: %s is %s", ErrActive, s.id, s.state)
	}

	net := bcast.NewNetwork(s.md, s.ch1, s.ch2)

	prog, err := net.Build(s.trigger)
	if err != nil {
		return err
	}

	if s.journal != nil {
		err = s.journal.Record(ctx, s.id, s.deviceName, net, s.trigger)
		if err != nil {
			return err
		}
	}

	s.net = net
	start := time.Now()

	if err := s.apply(prog, "build"); err != nil {
		s.state = Failed
		return err
	}

	s.state = Active

	slog.Info("broadcast network started",
		"Session", s.id,
		"Window", net.Window.String(),
		"Tiles", net.Footprint.NumTiles(),
		"Instructions", len(prog),
		"Elapsed", time.Since(start),
	)

	return nil
}

// Stop retracts the network. Stopping an idle session does nothing. A fault
// leaves the session Failed so that Stop can be retried.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		return nil
	}

	prog, err := s.net.Reset()
	if err != nil {
		return err
	}

	if err := s.apply(prog, "reset"); err != nil {
		s.state = Failed
		return err
	}

	s.state = Idle

	if s.journal != nil {
		err := s.journal.Remove(ctx, s.id)
		if err != nil && !errors.Is(err, journal.ErrNotFound) {
			return err
		}
	}

	slog.Info("broadcast network stopped",
		"Session", s.id,
		"Window", s.net.Window.String(),
		"Instructions", len(prog),
	)

	return nil
}

func (s *Session) apply(prog bcast.Program, phase string) error {
	s.phase = phase

	if s.driver != nil {
		s.driver.Enqueue(prog)
		return s.driver.Run()
	}

	e := bcast.NewExecutor(s.device)
	e.AddHook(s.record)

	return e.Apply(prog)
}

// record is called with s.mu held, from within apply.
func (s *Session) record(index int, inst bcast.Instruction) {
	if s.trace == nil {
		return
	}

	s.trace.Hook(s.id, s.phase)(index, inst)
}

// Recover retracts every journaled network of the device and drops its entry.
// Networks whose reset faults stay in the journal. It returns the ids of the
// retracted networks.
func Recover(
	ctx context.Context,
	dev bcast.Device,
	j *journal.Journal,
	deviceName string,
) ([]string, error) {
	entries, err := j.List(ctx, deviceName)
	if err != nil {
		return nil, err
	}

	recovered := make([]string, 0, len(entries))
	var errs []error

	for _, e := range entries {
		prog, err := e.Network.Reset()
		if err == nil {
			err = bcast.Apply(dev, prog)
		}

		if err != nil {
			slog.Error("broadcast network recovery failed",
				"Session", e.ID,
				"Device", e.Device,
				"Error", err,
			)
			errs = append(errs, fmt.Errorf("session %s: %w", e.ID, err))

			continue
		}

		if err := j.Remove(ctx, e.ID); err != nil {
			errs = append(errs, err)
			continue
		}

		bcast.Trace("BroadcastRecover",
			"Session", e.ID,
			"Device", e.Device,
			"Window", e.Network.Window.String(),
		)

		recovered = append(recovered, e.ID)
	}

	return recovered, errors.Join(errs...)
}
