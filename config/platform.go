package config

import (
	"errors"
	"fmt"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
	"github.com/sarchlab/bcastnet/core"
)

// ErrNoTile is returned for writes to a tile outside the device.
var ErrNoTile = errors.New("tile not present in device")

// A Device is an emulated tile array. Tiles can be retrieved using
// d.Tiles[row][col].
type Device struct {
	Name          string
	Width, Height int
	RowOffset     int
	Tiles         [][]*core.Tile
}

// GetSize returns the width and height of the device.
func (d *Device) GetSize() (int, int) {
	return d.Width, d.Height
}

// GetTile returns the tile at the given location.
func (d *Device) GetTile(loc cgra.TileLoc) (*core.Tile, error) {
	if loc.Col < 0 || loc.Col >= d.Width || loc.Row < 0 || loc.Row >= d.Height {
		return nil, fmt.Errorf("%w: %s in %dx%d device %s",
			ErrNoTile, loc, d.Width, d.Height, d.Name)
	}

	return d.Tiles[loc.Row][loc.Col], nil
}

// EventBroadcast sources the channel with the event at the module.
func (d *Device) EventBroadcast(
	loc cgra.TileLoc,
	module cgra.Module,
	ch bcast.Channel,
	event bcast.Event,
) error {
	t, err := d.GetTile(loc)
	if err != nil {
		return err
	}

	return t.SetSource(module, ch, event)
}

// EventBroadcastReset clears the source of the channel at the module.
func (d *Device) EventBroadcastReset(
	loc cgra.TileLoc,
	module cgra.Module,
	ch bcast.Channel,
) error {
	t, err := d.GetTile(loc)
	if err != nil {
		return err
	}

	return t.ClearSource(module, ch)
}

// BlockDir blocks the channel in the given sides of the switch.
func (d *Device) BlockDir(
	loc cgra.TileLoc,
	module cgra.Module,
	sw cgra.Switch,
	ch bcast.Channel,
	dirs cgra.DirMask,
) error {
	t, err := d.GetTile(loc)
	if err != nil {
		return err
	}

	return t.Block(module, sw, ch, dirs)
}

// UnblockDir unblocks the channel in the given sides of the switch.
func (d *Device) UnblockDir(
	loc cgra.TileLoc,
	module cgra.Module,
	sw cgra.Switch,
	ch bcast.Channel,
	dirs cgra.DirMask,
) error {
	t, err := d.GetTile(loc)
	if err != nil {
		return err
	}

	return t.Unblock(module, sw, ch, dirs)
}

// Pristine tells if no tile of the device carries any broadcast configuration.
func (d *Device) Pristine() bool {
	for _, row := range d.Tiles {
		for _, t := range row {
			if !t.Pristine() {
				return false
			}
		}
	}

	return true
}

// Snapshot returns the state of every configured tile.
func (d *Device) Snapshot() map[cgra.TileLoc]core.TileState {
	states := make(map[cgra.TileLoc]core.TileState)

	for _, row := range d.Tiles {
		for _, t := range row {
			if t.Pristine() {
				continue
			}
			states[t.Loc()] = t.State()
		}
	}

	return states
}

// Written returns the tiles that accepted at least one write.
func (d *Device) Written() []cgra.TileLoc {
	locs := make([]cgra.TileLoc, 0)

	for _, row := range d.Tiles {
		for _, t := range row {
			if t.Writes() > 0 {
				locs = append(locs, t.Loc())
			}
		}
	}

	return locs
}
