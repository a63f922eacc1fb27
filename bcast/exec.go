package bcast

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/bcastnet/cgra"
)

// Device is the hardware-configuration boundary. Every call blocks until the
// write completes or fails.
type Device interface {
	EventBroadcast(loc cgra.TileLoc, module cgra.Module, ch Channel, event Event) error
	EventBroadcastReset(loc cgra.TileLoc, module cgra.Module, ch Channel) error
	BlockDir(loc cgra.TileLoc, module cgra.Module, sw cgra.Switch, ch Channel, dirs cgra.DirMask) error
	UnblockDir(loc cgra.TileLoc, module cgra.Module, sw cgra.Switch, ch Channel, dirs cgra.DirMask) error
}

// ApplyTo issues the instruction to the device.
func (i Instruction) ApplyTo(dev Device) error {
	switch i.Op {
	case OpSetSource:
		return dev.EventBroadcast(i.Loc, i.Module, i.Channel, i.Event)
	case OpClearSource:
		return dev.EventBroadcastReset(i.Loc, i.Module, i.Channel)
	case OpBlock:
		return dev.BlockDir(i.Loc, i.Module, i.Switch, i.Channel, i.Dirs)
	case OpUnblock:
		return dev.UnblockDir(i.Loc, i.Module, i.Switch, i.Channel, i.Dirs)
	default:
		panic(fmt.Sprintf("unknown opcode %d", int(i.Op)))
	}
}

// Hook is called after each instruction the executor applies successfully.
type Hook func(index int, inst Instruction)

// Executor applies programs to a device in order.
type Executor struct {
	dev   Device
	hooks []Hook
}

// NewExecutor creates an executor for the device.
func NewExecutor(dev Device) *Executor {
	return &Executor{dev: dev}
}

// AddHook registers a hook.
func (e *Executor) AddHook(h Hook) {
	e.hooks = append(e.hooks, h)
}

// Apply issues every instruction of the program. It stops at the first fault
// and does not retry or roll back.
func (e *Executor) Apply(prog Program) error {
	for i, inst := range prog {
		if err := inst.ApplyTo(e.dev); err != nil {
			slog.Error("broadcast configuration failed",
				"Index", i,
				"Instruction", inst.String(),
				"Error", err,
			)

			return fmt.Errorf("%w: instruction %d (%s): %w",
				ErrConfigFault, i, inst, err)
		}

		for _, h := range e.hooks {
			h(i, inst)
		}
	}

	return nil
}

// Apply issues the program to the device without hooks.
func Apply(dev Device, prog Program) error {
	return NewExecutor(dev).Apply(prog)
}
