// Package cgra defines the commonly used data structure for tile arrays.
package cgra

import (
	"fmt"
	"strings"
)

// Side defines the side of a tile.
type Side int

const (
	North Side = iota
	East
	South
	West
)

// Sides lists all sides in a fixed order.
var Sides = []Side{North, East, South, West}

// Name returns the name of the side.
func (s Side) Name() string {
	switch s {
	case North:
		return "North"
	case West:
		return "West"
	case South:
		return "South"
	case East:
		return "East"
	default:
		panic("invalid side")
	}
}

// Mask returns the direction mask that only contains the side.
func (s Side) Mask() DirMask {
	switch s {
	case North, East, South, West:
		return DirMask(1) << uint(s)
	default:
		panic("invalid side")
	}
}

// DirMask is a set of sides. A side in the mask means a broadcast signal must
// not propagate through that side.
type DirMask uint8

const (
	DirNorth DirMask = 1 << iota
	DirEast
	DirSouth
	DirWest

	DirNone DirMask = 0
	DirAll  DirMask = DirNorth | DirEast | DirSouth | DirWest
)

// Has tells if the side is in the mask.
func (m DirMask) Has(s Side) bool {
	return m&s.Mask() != 0
}

// With returns a copy of the mask that also contains the given sides.
func (m DirMask) With(sides ...Side) DirMask {
	for _, s := range sides {
		m |= s.Mask()
	}

	return m
}

// String returns a compact form such as "N|S|W".
func (m DirMask) String() string {
	if m&DirAll == 0 {
		return "-"
	}

	names := make([]string, 0, 4)
	for _, s := range Sides {
		if m.Has(s) {
			names = append(names, s.Name()[:1])
		}
	}

	return strings.Join(names, "|")
}

// TileLoc identifies a tile. Col is absolute in the device and Row is absolute
// in the partition.
type TileLoc struct {
	Col int `yaml:"col" json:"col"`
	Row int `yaml:"row" json:"row"`
}

// Loc is a short hand to create a TileLoc.
func Loc(col, row int) TileLoc {
	return TileLoc{Col: col, Row: row}
}

func (l TileLoc) String() string {
	return fmt.Sprintf("Tile(%d, %d)", l.Col, l.Row)
}

// Module is a functional block inside a tile that owns a broadcast switch pair.
type Module int

const (
	CoreModule Module = iota
	MemModule
	PLModule
)

// Name returns the name of the module.
func (m Module) Name() string {
	switch m {
	case CoreModule:
		return "Core"
	case MemModule:
		return "Mem"
	case PLModule:
		return "PL"
	default:
		panic("invalid module")
	}
}

// Switch selects one of the two broadcast switches of a module.
type Switch int

const (
	SwitchA Switch = iota
	SwitchB
)

// Name returns the name of the switch.
func (s Switch) Name() string {
	switch s {
	case SwitchA:
		return "A"
	case SwitchB:
		return "B"
	default:
		panic("invalid switch")
	}
}
