package bcast

import (
	"fmt"

	"github.com/sarchlab/bcastnet/cgra"
)

// Channel identifies a broadcast channel.
type Channel uint8

// Event is a device event number.
type Event uint16

// DefaultBroadcastEventBase is the event number of broadcast channel 0 as seen
// by the boundary module. The event raised by channel n is base + n.
const DefaultBroadcastEventBase Event = 110

// BroadcastEvent returns the event that a module observes when the channel
// carries a signal.
func BroadcastEvent(base Event, ch Channel) Event {
	return base + Event(ch)
}

// Opcode is the kind of a configuration instruction.
type Opcode int

const (
	// OpSetSource makes a channel carry an event, starting at a module.
	OpSetSource Opcode = iota
	// OpClearSource removes the event a channel carries at a module.
	OpClearSource
	// OpBlock stops a channel from leaving a switch through some sides.
	OpBlock
	// OpUnblock lets a channel leave a switch through some sides again.
	OpUnblock
)

var opcodeNames = map[Opcode]string{
	OpSetSource:   "SET_SOURCE",
	OpClearSource: "CLEAR_SOURCE",
	OpBlock:       "BLOCK",
	OpUnblock:     "UNBLOCK",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}

	return fmt.Sprintf("Opcode(%d)", int(o))
}

// MarshalText encodes the opcode by name.
func (o Opcode) MarshalText() ([]byte, error) {
	name, ok := opcodeNames[o]
	if !ok {
		return nil, fmt.Errorf("unknown opcode %d", int(o))
	}

	return []byte(name), nil
}

// UnmarshalText decodes an opcode name.
func (o *Opcode) UnmarshalText(text []byte) error {
	for op, name := range opcodeNames {
		if name == string(text) {
			*o = op
			return nil
		}
	}

	return fmt.Errorf("unknown opcode %q", string(text))
}

// Instruction is a single configuration write. Each instruction targets an
// independent resource keyed by tile, module, switch and channel.
type Instruction struct {
	Op      Opcode       `json:"op"`
	Loc     cgra.TileLoc `json:"loc"`
	Module  cgra.Module  `json:"module"`
	Switch  cgra.Switch  `json:"switch"`
	Channel Channel      `json:"channel"`
	Event   Event        `json:"event,omitempty"`
	Dirs    cgra.DirMask `json:"dirs,omitempty"`
}

// SetSource creates an instruction that sources the channel with the event.
func SetSource(
	loc cgra.TileLoc,
	module cgra.Module,
	ch Channel,
	event Event,
) Instruction {
	return Instruction{
		Op:      OpSetSource,
		Loc:     loc,
		Module:  module,
		Channel: ch,
		Event:   event,
	}
}

// ClearSource creates an instruction that removes the source of the channel.
func ClearSource(loc cgra.TileLoc, module cgra.Module, ch Channel) Instruction {
	return Instruction{
		Op:      OpClearSource,
		Loc:     loc,
		Module:  module,
		Channel: ch,
	}
}

// Block creates an instruction that blocks the channel in the given sides.
func Block(
	loc cgra.TileLoc,
	module cgra.Module,
	sw cgra.Switch,
	ch Channel,
	dirs cgra.DirMask,
) Instruction {
	return Instruction{
		Op:      OpBlock,
		Loc:     loc,
		Module:  module,
		Switch:  sw,
		Channel: ch,
		Dirs:    dirs,
	}
}

// Unblock creates an instruction that unblocks the channel in the given sides.
func Unblock(
	loc cgra.TileLoc,
	module cgra.Module,
	sw cgra.Switch,
	ch Channel,
	dirs cgra.DirMask,
) Instruction {
	return Instruction{
		Op:      OpUnblock,
		Loc:     loc,
		Module:  module,
		Switch:  sw,
		Channel: ch,
		Dirs:    dirs,
	}
}

func (i Instruction) String() string {
	switch i.Op {
	case OpSetSource:
		return fmt.Sprintf("%s %s.%s ch%d ev%d",
			i.Op, i.Loc, i.Module.Name(), i.Channel, i.Event)
	case OpClearSource:
		return fmt.Sprintf("%s %s.%s ch%d",
			i.Op, i.Loc, i.Module.Name(), i.Channel)
	default:
		return fmt.Sprintf("%s %s.%s.%s ch%d [%s]",
			i.Op, i.Loc, i.Module.Name(), i.Switch.Name(), i.Channel, i.Dirs)
	}
}

// Program is an ordered list of instructions.
type Program []Instruction

// Tiles returns the distinct tiles the program touches, in first-touch order.
func (p Program) Tiles() []cgra.TileLoc {
	seen := make(map[cgra.TileLoc]bool)
	tiles := make([]cgra.TileLoc, 0)

	for _, inst := range p {
		if seen[inst.Loc] {
			continue
		}

		seen[inst.Loc] = true
		tiles = append(tiles, inst.Loc)
	}

	return tiles
}

// Count returns the number of instructions with the given opcode.
func (p Program) Count(op Opcode) int {
	n := 0
	for _, inst := range p {
		if inst.Op == op {
			n++
		}
	}

	return n
}
