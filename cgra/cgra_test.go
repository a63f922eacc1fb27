package cgra_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bcastnet/cgra"
)

var _ = Describe("DirMask", func() {
	It("should map sides to bits", func() {
		Expect(cgra.North.Mask()).To(Equal(cgra.DirNorth))
		Expect(cgra.East.Mask()).To(Equal(cgra.DirEast))
		Expect(cgra.South.Mask()).To(Equal(cgra.DirSouth))
		Expect(cgra.West.Mask()).To(Equal(cgra.DirWest))
	})

	It("should add sides", func() {
		m := cgra.DirNone.With(cgra.South, cgra.West)
		Expect(m.Has(cgra.South)).To(BeTrue())
		Expect(m.Has(cgra.North)).To(BeFalse())
		Expect(m.With(cgra.North, cgra.East)).To(Equal(cgra.DirAll))
	})

	It("should print the sides", func() {
		Expect(cgra.DirNone.String()).To(Equal("-"))
		Expect(cgra.DirAll.String()).To(Equal("N|E|S|W"))
		Expect((cgra.DirSouth | cgra.DirNorth).String()).To(Equal("N|S"))
	})

	It("should panic on invalid sides", func() {
		Expect(func() { cgra.Side(7).Name() }).To(Panic())
		Expect(func() { cgra.Side(-1).Mask() }).To(Panic())
	})
})

var _ = Describe("ClassifyRow", func() {
	DescribeTable("should derive the role from the row",
		func(row, rowOffset int, role cgra.Role) {
			Expect(cgra.ClassifyRow(row, rowOffset)).To(Equal(role))
		},
		Entry("row 0 is boundary", 0, 1, cgra.Boundary),
		Entry("row 0 is boundary with mid-tier rows", 0, 3, cgra.Boundary),
		Entry("row below offset is mid-tier", 1, 2, cgra.MidTier),
		Entry("last mid-tier row", 2, 3, cgra.MidTier),
		Entry("row at offset is compute", 3, 3, cgra.Compute),
		Entry("row 1 without mid-tier rows", 1, 1, cgra.Compute),
		Entry("high row", 9, 2, cgra.Compute),
	)

	It("should agree with the definition for every row", func() {
		for rowOffset := 1; rowOffset < 6; rowOffset++ {
			for row := 0; row < 12; row++ {
				role := cgra.ClassifyRow(row, rowOffset)
				Expect(role == cgra.Boundary).To(Equal(row == 0))
				Expect(role == cgra.MidTier).To(Equal(row > 0 && row < rowOffset))
				Expect(role == cgra.Compute).To(Equal(row > 0 && row >= rowOffset))
			}
		}
	})

	It("should list the modules of a role", func() {
		Expect(cgra.Boundary.Modules()).To(Equal([]cgra.Module{cgra.PLModule}))
		Expect(cgra.MidTier.Modules()).To(Equal([]cgra.Module{cgra.MemModule}))
		Expect(cgra.Compute.Modules()).
			To(Equal([]cgra.Module{cgra.CoreModule, cgra.MemModule}))
	})
})
