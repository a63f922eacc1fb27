package bcast

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/bcastnet/cgra"
)

// Window is the half-open column range [StartCol, StartCol+NumCols) owned by a
// partition.
type Window struct {
	StartCol int
	NumCols  int
}

// EndCol returns the first column after the window.
func (w Window) EndCol() int {
	return w.StartCol + w.NumCols
}

// Contains tells if the column is inside the window.
func (w Window) Contains(col int) bool {
	return col >= w.StartCol && col < w.EndCol()
}

// IsFirst tells if the column is the first column of the window.
func (w Window) IsFirst(col int) bool {
	return col == w.StartCol
}

// IsLast tells if the column is the last column of the window.
func (w Window) IsLast(col int) bool {
	return col == w.EndCol()-1
}

// Validate checks that the window describes at least one column.
func (w Window) Validate() error {
	if w.StartCol < 0 {
		return fmt.Errorf("%w: negative start column %d", ErrInvariant, w.StartCol)
	}

	if w.NumCols <= 0 {
		return fmt.Errorf("%w: window has %d columns", ErrInvariant, w.NumCols)
	}

	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d)", w.StartCol, w.EndCol())
}

// Footprint holds, for every column of a window, the highest row that must be
// part of the network. Entry c belongs to column StartCol+c.
type Footprint []int

// NewFootprint reduces the enrolled tiles to the highest enrolled row per
// column. Columns without enrolled tiles keep row 0, so the boundary row is
// always present. Tiles outside the window are ignored.
func NewFootprint(w Window, metrics map[cgra.TileLoc]string) Footprint {
	n := w.NumCols
	if n < 0 {
		n = 0
	}

	fp := make(Footprint, n)
	for loc := range metrics {
		if !w.Contains(loc.Col) || loc.Row < 0 {
			slog.Debug("ignoring tile outside window",
				"Tile", loc.String(), "Window", w.String())
			continue
		}

		c := loc.Col - w.StartCol
		fp[c] = max(fp[c], loc.Row)
	}

	return fp
}

// Top returns the highest row of the absolute column.
func (f Footprint) Top(w Window, col int) int {
	return f[col-w.StartCol]
}

// NumTiles returns how many tiles the footprint covers.
func (f Footprint) NumTiles() int {
	n := 0
	for _, top := range f {
		n += top + 1
	}

	return n
}
