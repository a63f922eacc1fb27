package bcast

import "github.com/sarchlab/bcastnet/cgra"

// channelSel picks one of the two channels of a network.
type channelSel int

const (
	vertical   channelSel = iota // channel 1, fans out along a column
	horizontal                   // channel 2, relays along the boundary row
)

type northPolicy int

const (
	northOpen northPolicy = iota
	// northUnlessTop blocks North on every tile below the column top.
	northUnlessTop
)

type eastPolicy int

const (
	eastOpen eastPolicy = iota
	// eastUnlessLast blocks East on every column but the last one.
	eastUnlessLast
	// eastUnlessLastOrFirst also blocks East at the first column, even when
	// it is the last one as well.
	eastUnlessLastOrFirst
)

// tilePos is where a tile sits relative to its column and the window.
type tilePos struct {
	loc   cgra.TileLoc
	top   bool
	first bool
	last  bool
}

// linkRule describes the blocking of one (module, switch, channel) link.
type linkRule struct {
	module cgra.Module
	sw     cgra.Switch
	ch     channelSel
	base   cgra.DirMask
	north  northPolicy
	east   eastPolicy
}

func (r linkRule) mask(p tilePos) cgra.DirMask {
	m := r.base

	if r.north == northUnlessTop && !p.top {
		m = m.With(cgra.North)
	}

	switch r.east {
	case eastUnlessLast:
		if !p.last {
			m = m.With(cgra.East)
		}
	case eastUnlessLastOrFirst:
		if !p.last || p.first {
			m = m.With(cgra.East)
		}
	}

	return m
}

// roleRule is the configuration a tile of one role receives.
type roleRule struct {
	// sourced tiles re-source the vertical channel on sourceModule.
	sourced      bool
	sourceModule cgra.Module
	links        []linkRule
}

var (
	dirSWE = cgra.DirSouth | cgra.DirWest | cgra.DirEast
	dirSWN = cgra.DirSouth | cgra.DirWest | cgra.DirNorth
	dirSW  = cgra.DirSouth | cgra.DirWest
)

var roleRules = map[cgra.Role]roleRule{
	cgra.Boundary: {
		sourced:      true,
		sourceModule: cgra.PLModule,
		links: []linkRule{
			{cgra.PLModule, cgra.SwitchA, vertical, dirSWE, northUnlessTop, eastOpen},
			{cgra.PLModule, cgra.SwitchA, horizontal, dirSWN, northOpen, eastUnlessLast},
			{cgra.PLModule, cgra.SwitchB, horizontal, dirSWN, northOpen, eastUnlessLastOrFirst},
		},
	},
	cgra.MidTier: {
		links: []linkRule{
			{cgra.MemModule, cgra.SwitchA, vertical, dirSWE, northUnlessTop, eastOpen},
		},
	},
	cgra.Compute: {
		links: []linkRule{
			{cgra.CoreModule, cgra.SwitchA, vertical, dirSW, northUnlessTop, eastOpen},
			{cgra.MemModule, cgra.SwitchA, vertical, dirSWE, northUnlessTop, eastOpen},
		},
	},
}

func ruleFor(role cgra.Role) roleRule {
	rule, ok := roleRules[role]
	if !ok {
		panic("no broadcast rule for role " + role.Name())
	}

	return rule
}
