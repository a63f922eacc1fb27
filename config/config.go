// Package config provides an emulated tile-array device and the session file
// that describes a trace session on it.
package config

import (
	"github.com/sarchlab/bcastnet/cgra"
	"github.com/sarchlab/bcastnet/core"
)

// DeviceBuilder can build emulated devices.
type DeviceBuilder struct {
	width, height int
	rowOffset     int
	numChannels   int
}

// MakeBuilder creates a builder with a single mid-tier row and the default
// number of broadcast channels.
func MakeBuilder() DeviceBuilder {
	return DeviceBuilder{
		rowOffset:   2,
		numChannels: core.DefaultNumChannels,
	}
}

// WithWidth sets the number of columns.
func (d DeviceBuilder) WithWidth(width int) DeviceBuilder {
	d.width = width
	return d
}

// WithHeight sets the number of rows, including the boundary row.
func (d DeviceBuilder) WithHeight(height int) DeviceBuilder {
	d.height = height
	return d
}

// WithRowOffset sets the first compute row. Rows 1 to rowOffset-1 are
// mid-tier rows.
func (d DeviceBuilder) WithRowOffset(rowOffset int) DeviceBuilder {
	d.rowOffset = rowOffset
	return d
}

// WithChannels sets the number of broadcast channels per module.
func (d DeviceBuilder) WithChannels(n int) DeviceBuilder {
	d.numChannels = n
	return d
}

// Build creates a device.
func (d DeviceBuilder) Build(name string) *Device {
	if d.width <= 0 || d.height <= 0 {
		panic("device must have at least one tile")
	}

	if d.rowOffset <= 0 {
		panic("row offset must be positive")
	}

	dev := &Device{
		Name:      name,
		Width:     d.width,
		Height:    d.height,
		RowOffset: d.rowOffset,
		Tiles:     make([][]*core.Tile, d.height),
	}

	for y := 0; y < d.height; y++ {
		dev.Tiles[y] = make([]*core.Tile, d.width)
		role := cgra.ClassifyRow(y, d.rowOffset)
		for x := 0; x < d.width; x++ {
			dev.Tiles[y][x] = core.NewTile(
				cgra.Loc(x, y), d.numChannels, role.Modules()...)
		}
	}

	return dev
}
