// Package api defines the driver that programs broadcast networks into a
// device on a simulated timeline.
package api

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/bcastnet/bcast"
)

// Driver issues configuration programs to a device, one instruction per
// cycle.
type Driver interface {
	sim.Component

	// RegisterDevice sets the device the driver configures.
	RegisterDevice(device bcast.Device)

	// Enqueue adds a program. Programs are issued in the order they are
	// enqueued.
	Enqueue(prog bcast.Program)

	// AddInstructionHook registers a hook that is called after every
	// instruction the device accepts.
	AddInstructionHook(h bcast.Hook)

	// Run issues all the enqueued programs. It stops at the first fault and
	// drops the programs that are still queued.
	Run() error

	// Cycles returns how many configuration writes have been issued.
	Cycles() uint64
}

type programTask struct {
	prog bcast.Program
	next int
}

func (t *programTask) isFinished() bool {
	return t.next >= len(t.prog)
}

type driverImpl struct {
	*sim.TickingComponent

	engine sim.Engine
	device bcast.Device
	tasks  []*programTask
	hooks  []bcast.Hook

	issued int
	cycles uint64
	err    error
}

// Tick issues one instruction.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.err != nil {
		return false
	}

	d.removeFinishedTasks()
	if len(d.tasks) == 0 {
		return false
	}

	return d.issueOne(d.tasks[0])
}

func (d *driverImpl) issueOne(task *programTask) bool {
	inst := task.prog[task.next]

	err := inst.ApplyTo(d.device)
	if err != nil {
		d.err = fmt.Errorf("%w: instruction %d (%s): %w",
			bcast.ErrConfigFault, task.next, inst, err)
		d.tasks = nil

		bcast.Trace("DriverFault",
			"Driver", d.Name(),
			"Cycle", d.cycles,
			"Instruction", inst.String(),
			"Error", err,
		)

		return false
	}

	for _, h := range d.hooks {
		h(d.issued, inst)
	}

	task.next++
	d.issued++
	d.cycles++

	return true
}

func (d *driverImpl) removeFinishedTasks() {
	for len(d.tasks) > 0 && d.tasks[0].isFinished() {
		d.tasks = d.tasks[1:]
	}
}

// RegisterDevice sets the device the driver configures.
func (d *driverImpl) RegisterDevice(device bcast.Device) {
	d.device = device
}

// Enqueue adds a program to the issue queue.
func (d *driverImpl) Enqueue(prog bcast.Program) {
	if len(prog) == 0 {
		return
	}

	d.tasks = append(d.tasks, &programTask{prog: prog})
}

// AddInstructionHook registers a hook.
func (d *driverImpl) AddInstructionHook(h bcast.Hook) {
	d.hooks = append(d.hooks, h)
}

// Run runs the engine until every queued program is issued or a fault stops
// the driver.
func (d *driverImpl) Run() error {
	if d.device == nil {
		panic("driver has no registered device")
	}

	d.issued = 0
	d.TickLater()

	if err := d.engine.Run(); err != nil {
		return err
	}

	err := d.err
	d.err = nil

	return err
}

// Cycles returns how many configuration writes have been issued.
func (d *driverImpl) Cycles() uint64 {
	return d.cycles
}
