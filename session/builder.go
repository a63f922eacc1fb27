package session

import (
	"github.com/sarchlab/bcastnet/api"
	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/journal"
	"github.com/sarchlab/bcastnet/tracelog"
)

// Builder creates sessions.
type Builder struct {
	deviceName string
	device     bcast.Device
	md         bcast.Metadata
	ch1, ch2   bcast.Channel
	trigger    bcast.Event
	journal    *journal.Journal
	trace      *tracelog.Writer
	driver     api.Driver
}

// WithDevice sets the device and the name it is journaled under.
func (b Builder) WithDevice(name string, dev bcast.Device) Builder {
	b.deviceName = name
	b.device = dev
	return b
}

// WithMetadata sets the session metadata the network is derived from.
func (b Builder) WithMetadata(md bcast.Metadata) Builder {
	b.md = md
	return b
}

// WithChannels sets the vertical and the horizontal channel.
func (b Builder) WithChannels(ch1, ch2 bcast.Channel) Builder {
	b.ch1 = ch1
	b.ch2 = ch2
	return b
}

// WithTrigger sets the event that starts the trace.
func (b Builder) WithTrigger(event bcast.Event) Builder {
	b.trigger = event
	return b
}

// WithJournal sets the journal of live networks.
func (b Builder) WithJournal(j *journal.Journal) Builder {
	b.journal = j
	return b
}

// WithTraceLog sets the log of applied instructions.
func (b Builder) WithTraceLog(w *tracelog.Writer) Builder {
	b.trace = w
	return b
}

// WithDriver makes the session issue its programs through a cycle driver.
// The device is registered with the driver.
func (b Builder) WithDriver(d api.Driver) Builder {
	b.driver = d
	return b
}

// Build creates a session.
func (b Builder) Build(id string) *Session {
	if b.device == nil || b.md == nil {
		panic("session needs a device and metadata")
	}

	s := &Session{
		id:         id,
		deviceName: b.deviceName,
		device:     b.device,
		md:         b.md,
		ch1:        b.ch1,
		ch2:        b.ch2,
		trigger:    b.trigger,
		journal:    b.journal,
		trace:      b.trace,
		driver:     b.driver,
	}

	if s.driver != nil {
		s.driver.RegisterDevice(s.device)
		s.driver.AddInstructionHook(s.record)
	}

	return s
}
