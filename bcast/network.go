// Package bcast computes and applies the two-channel broadcast network that
// fans a trace trigger out to the enrolled tiles of a partition.
package bcast

import (
	"fmt"
	"math"

	"github.com/sarchlab/bcastnet/cgra"
)

// Network describes a two-channel broadcast network over a window of columns.
// Channel1 fans the trigger out along every column. Channel2 relays it east
// along the boundary row so that every column can re-source Channel1 locally.
//
// Build and Reset only compute instructions. They do not touch any device.
type Network struct {
	Window    Window
	Footprint Footprint
	RowOffset int

	Channel1 Channel
	Channel2 Channel

	// EventBase is the broadcast event numbering base of the boundary module.
	EventBase Event
}

// Validate checks the invariants Build and Reset rely on.
func (n Network) Validate() error {
	if err := n.Window.Validate(); err != nil {
		return err
	}

	if len(n.Footprint) != n.Window.NumCols {
		return fmt.Errorf("%w: footprint covers %d columns, window has %d",
			ErrInvariant, len(n.Footprint), n.Window.NumCols)
	}

	for c, top := range n.Footprint {
		if top < 0 {
			return fmt.Errorf("%w: negative top row %d at column %d",
				ErrInvariant, top, n.Window.StartCol+c)
		}
	}

	if n.RowOffset <= 0 {
		return fmt.Errorf("%w: row offset %d", ErrInvariant, n.RowOffset)
	}

	if n.Channel1 == n.Channel2 {
		return fmt.Errorf("%w: both channels are %d", ErrInvariant, n.Channel1)
	}

	if int(n.EventBase)+int(n.Channel2) > math.MaxUint16 {
		return fmt.Errorf("%w: event base %d overflows with channel %d",
			ErrInvariant, n.EventBase, n.Channel2)
	}

	return nil
}

// Origin is the boundary tile of the first column, where Channel2 is sourced.
func (n Network) Origin() cgra.TileLoc {
	return cgra.Loc(n.Window.StartCol, 0)
}

func (n Network) channel(sel channelSel) Channel {
	if sel == horizontal {
		return n.Channel2
	}

	return n.Channel1
}

// walk visits every tile from the boundary row up to the top row of each
// column of the window.
func (n Network) walk(visit func(p tilePos, role cgra.Role)) {
	w := n.Window
	for col := w.StartCol; col < w.EndCol(); col++ {
		top := n.Footprint.Top(w, col)
		for row := 0; row <= top; row++ {
			p := tilePos{
				loc:   cgra.Loc(col, row),
				top:   row == top,
				first: w.IsFirst(col),
				last:  w.IsLast(col),
			}
			visit(p, cgra.ClassifyRow(row, n.RowOffset))
		}
	}
}

// Build returns the instructions that prime the network so that the trigger
// event reaches every tile of the footprint. Building twice without a Reset in
// between is not supported.
func (n Network) Build(trigger Event) (Program, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	relayed := BroadcastEvent(n.EventBase, n.Channel2)
	prog := Program{
		SetSource(n.Origin(), cgra.PLModule, n.Channel2, trigger),
	}

	n.walk(func(p tilePos, role cgra.Role) {
		rule := ruleFor(role)

		if rule.sourced {
			ev := relayed
			if p.first {
				ev = trigger
			}
			prog = append(prog, SetSource(p.loc, rule.sourceModule, n.Channel1, ev))
		}

		for _, l := range rule.links {
			prog = append(prog,
				Block(p.loc, l.module, l.sw, n.channel(l.ch), l.mask(p)))
		}
	})

	Trace("BroadcastBuild",
		"Window", n.Window.String(),
		"Channel1", n.Channel1,
		"Channel2", n.Channel2,
		"Tiles", n.Footprint.NumTiles(),
		"Instructions", len(prog),
	)

	return prog, nil
}

// Reset returns the instructions that retract a network built with the same
// description. Every link Build may have touched is fully unblocked, whatever
// mask Build put on it.
func (n Network) Reset() (Program, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	prog := Program{
		ClearSource(n.Origin(), cgra.PLModule, n.Channel2),
	}

	n.walk(func(p tilePos, role cgra.Role) {
		rule := ruleFor(role)

		if rule.sourced {
			prog = append(prog, ClearSource(p.loc, rule.sourceModule, n.Channel1))
		}

		for _, l := range rule.links {
			prog = append(prog,
				Unblock(p.loc, l.module, l.sw, n.channel(l.ch), cgra.DirAll))
		}
	})

	Trace("BroadcastReset",
		"Window", n.Window.String(),
		"Channel1", n.Channel1,
		"Channel2", n.Channel2,
		"Tiles", n.Footprint.NumTiles(),
		"Instructions", len(prog),
	)

	return prog, nil
}
