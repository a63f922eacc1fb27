package bcast_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
)

var _ = Describe("Window", func() {
	It("should be half open", func() {
		w := bcast.Window{StartCol: 2, NumCols: 3}

		Expect(w.EndCol()).To(Equal(5))
		Expect(w.Contains(1)).To(BeFalse())
		Expect(w.Contains(2)).To(BeTrue())
		Expect(w.Contains(4)).To(BeTrue())
		Expect(w.Contains(5)).To(BeFalse())
		Expect(w.IsFirst(2)).To(BeTrue())
		Expect(w.IsLast(4)).To(BeTrue())
		Expect(w.String()).To(Equal("[2, 5)"))
	})

	It("should reject empty windows", func() {
		Expect(bcast.Window{StartCol: 0, NumCols: 0}.Validate()).
			To(MatchError(bcast.ErrInvariant))
		Expect(bcast.Window{StartCol: -1, NumCols: 2}.Validate()).
			To(MatchError(bcast.ErrInvariant))
		Expect(bcast.Window{StartCol: 0, NumCols: 1}.Validate()).
			To(Succeed())
	})
})

var _ = Describe("Footprint", func() {
	w := bcast.Window{StartCol: 2, NumCols: 3}

	It("should be all zero without enrolled tiles", func() {
		Expect(bcast.NewFootprint(w, nil)).To(Equal(bcast.Footprint{0, 0, 0}))
		Expect(bcast.NewFootprint(bcast.Window{StartCol: 0, NumCols: 4},
			map[cgra.TileLoc]string{})).
			To(Equal(bcast.Footprint{0, 0, 0, 0}))
	})

	It("should keep the highest row per column", func() {
		fp := bcast.NewFootprint(w, map[cgra.TileLoc]string{
			cgra.Loc(2, 1): "heat_map",
			cgra.Loc(4, 2): "heat_map",
			cgra.Loc(4, 1): "stalls",
			cgra.Loc(2, 0): "input_throughputs",
		})

		Expect(fp).To(Equal(bcast.Footprint{1, 0, 2}))
		Expect(fp.Top(w, 4)).To(Equal(2))
		Expect(fp.NumTiles()).To(Equal(6))
	})

	It("should ignore tiles outside the window", func() {
		fp := bcast.NewFootprint(w, map[cgra.TileLoc]string{
			cgra.Loc(1, 5): "heat_map",
			cgra.Loc(5, 3): "heat_map",
			cgra.Loc(3, 2): "heat_map",
		})

		Expect(fp).To(Equal(bcast.Footprint{0, 2, 0}))
	})
})
