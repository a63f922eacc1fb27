package cgra

// Role is the part a tile plays in the array. It is derived from the row.
type Role int

const (
	// Boundary tiles sit on row 0 and interface the array with the outside.
	Boundary Role = iota
	// MidTier tiles sit between the boundary row and the compute rows.
	MidTier
	// Compute tiles run the kernels and originate per-core events.
	Compute
)

// Roles lists all roles.
var Roles = []Role{Boundary, MidTier, Compute}

// Name returns the name of the role.
func (r Role) Name() string {
	switch r {
	case Boundary:
		return "Boundary"
	case MidTier:
		return "MidTier"
	case Compute:
		return "Compute"
	default:
		panic("invalid role")
	}
}

func (r Role) String() string {
	return r.Name()
}

// ClassifyRow returns the role of the tiles on the given absolute row. Rows in
// [1, rowOffset) are mid-tier rows.
func ClassifyRow(row, rowOffset int) Role {
	switch {
	case row == 0:
		return Boundary
	case row < rowOffset:
		return MidTier
	default:
		return Compute
	}
}

// Modules returns the modules a tile of the role carries.
func (r Role) Modules() []Module {
	switch r {
	case Boundary:
		return []Module{PLModule}
	case MidTier:
		return []Module{MemModule}
	case Compute:
		return []Module{CoreModule, MemModule}
	default:
		panic("invalid role")
	}
}
