// Package core models the broadcast switches of a single tile.
package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
)

// DefaultNumChannels is the number of broadcast channels of every module.
const DefaultNumChannels = 16

var (
	// ErrNoModule is returned for writes to a module the tile does not have.
	ErrNoModule = errors.New("module not present in tile")
	// ErrNoChannel is returned for writes to a channel the module does not have.
	ErrNoChannel = errors.New("broadcast channel out of range")
)

type sourceKey struct {
	module cgra.Module
	ch     bcast.Channel
}

type linkKey struct {
	module cgra.Module
	sw     cgra.Switch
	ch     bcast.Channel
}

// Tile holds the broadcast configuration registers of one tile.
type Tile struct {
	loc         cgra.TileLoc
	modules     map[cgra.Module]bool
	numChannels int

	sources map[sourceKey]bcast.Event
	masks   map[linkKey]cgra.DirMask
	writes  int
}

// NewTile creates a tile that carries the given modules.
func NewTile(loc cgra.TileLoc, numChannels int, modules ...cgra.Module) *Tile {
	t := &Tile{
		loc:         loc,
		modules:     make(map[cgra.Module]bool),
		numChannels: numChannels,
		sources:     make(map[sourceKey]bcast.Event),
		masks:       make(map[linkKey]cgra.DirMask),
	}

	for _, m := range modules {
		t.modules[m] = true
	}

	return t
}

// Loc returns the location of the tile.
func (t *Tile) Loc() cgra.TileLoc {
	return t.loc
}

// HasModule tells if the tile carries the module.
func (t *Tile) HasModule(m cgra.Module) bool {
	return t.modules[m]
}

// Writes returns how many register writes the tile accepted.
func (t *Tile) Writes() int {
	return t.writes
}

func (t *Tile) check(m cgra.Module, ch bcast.Channel) error {
	if !t.modules[m] {
		return fmt.Errorf("%w: %s has no %s module", ErrNoModule, t.loc, m.Name())
	}

	if int(ch) >= t.numChannels {
		return fmt.Errorf("%w: channel %d, %s has %d",
			ErrNoChannel, ch, t.loc, t.numChannels)
	}

	return nil
}

// SetSource makes the channel carry the event from the module.
func (t *Tile) SetSource(m cgra.Module, ch bcast.Channel, ev bcast.Event) error {
	if err := t.check(m, ch); err != nil {
		return err
	}

	t.sources[sourceKey{m, ch}] = ev
	t.writes++

	return nil
}

// ClearSource removes the event the channel carries from the module.
func (t *Tile) ClearSource(m cgra.Module, ch bcast.Channel) error {
	if err := t.check(m, ch); err != nil {
		return err
	}

	delete(t.sources, sourceKey{m, ch})
	t.writes++

	return nil
}

// Block adds the sides to the block mask of the link.
func (t *Tile) Block(
	m cgra.Module,
	sw cgra.Switch,
	ch bcast.Channel,
	dirs cgra.DirMask,
) error {
	if err := t.check(m, ch); err != nil {
		return err
	}

	key := linkKey{m, sw, ch}
	t.masks[key] |= dirs & cgra.DirAll
	t.writes++

	return nil
}

// Unblock removes the sides from the block mask of the link.
func (t *Tile) Unblock(
	m cgra.Module,
	sw cgra.Switch,
	ch bcast.Channel,
	dirs cgra.DirMask,
) error {
	if err := t.check(m, ch); err != nil {
		return err
	}

	key := linkKey{m, sw, ch}
	t.masks[key] &^= dirs
	if t.masks[key] == cgra.DirNone {
		delete(t.masks, key)
	}
	t.writes++

	return nil
}

// Mask returns the block mask of the link.
func (t *Tile) Mask(m cgra.Module, sw cgra.Switch, ch bcast.Channel) cgra.DirMask {
	return t.masks[linkKey{m, sw, ch}]
}

// Source returns the event the channel carries from the module, if any.
func (t *Tile) Source(m cgra.Module, ch bcast.Channel) (bcast.Event, bool) {
	ev, ok := t.sources[sourceKey{m, ch}]
	return ev, ok
}

// Pristine tells if no source is set and no side is blocked.
func (t *Tile) Pristine() bool {
	return len(t.sources) == 0 && len(t.masks) == 0
}

// SourceState is a configured channel source.
type SourceState struct {
	Module  cgra.Module
	Channel bcast.Channel
	Event   bcast.Event
}

// LinkState is a link with at least one side blocked.
type LinkState struct {
	Module  cgra.Module
	Switch  cgra.Switch
	Channel bcast.Channel
	Blocked cgra.DirMask
}

// TileState is a snapshot of the configuration of a tile.
type TileState struct {
	Loc     cgra.TileLoc
	Sources []SourceState
	Links   []LinkState
}

// State takes a snapshot of the tile, sorted by module, switch and channel.
func (t *Tile) State() TileState {
	s := TileState{Loc: t.loc}

	for k, ev := range t.sources {
		s.Sources = append(s.Sources, SourceState{k.module, k.ch, ev})
	}

	for k, m := range t.masks {
		s.Links = append(s.Links, LinkState{k.module, k.sw, k.ch, m})
	}

	sort.Slice(s.Sources, func(i, j int) bool {
		a, b := s.Sources[i], s.Sources[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		return a.Channel < b.Channel
	})

	sort.Slice(s.Links, func(i, j int) bool {
		a, b := s.Links[i], s.Links[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Switch != b.Switch {
			return a.Switch < b.Switch
		}
		return a.Channel < b.Channel
	})

	return s
}
