package tracelog_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
	"github.com/sarchlab/bcastnet/config"
	"github.com/sarchlab/bcastnet/tracelog"
)

var _ = Describe("Writer", func() {
	var (
		path string
		w    *tracelog.Writer
	)

	BeforeEach(func() {
		var err error
		path = filepath.Join(GinkgoT().TempDir(), "logs", "bcast.jsonl.zst")
		w, err = tracelog.Create(path)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should record applied instructions in order", func() {
		net := bcast.Network{
			Window:    bcast.Window{StartCol: 0, NumCols: 2},
			Footprint: bcast.Footprint{1, 2},
			RowOffset: 1,
			Channel1:  0,
			Channel2:  1,
			EventBase: bcast.DefaultBroadcastEventBase,
		}
		dev := config.MakeBuilder().WithWidth(2).WithHeight(3).WithRowOffset(1).
			Build("Device")

		build, err := net.Build(5)
		Expect(err).NotTo(HaveOccurred())
		reset, err := net.Reset()
		Expect(err).NotTo(HaveOccurred())

		e := bcast.NewExecutor(dev)
		e.AddHook(w.Hook("s1", "build"))
		Expect(e.Apply(build)).To(Succeed())

		e = bcast.NewExecutor(dev)
		e.AddHook(w.Hook("s1", "reset"))
		Expect(e.Apply(reset)).To(Succeed())

		Expect(w.Count()).To(Equal(uint64(len(build) + len(reset))))
		Expect(w.Close()).To(Succeed())

		entries, err := tracelog.ReadAll(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(len(build) + len(reset)))

		for i, inst := range build {
			Expect(entries[i].Seq).To(Equal(uint64(i + 1)))
			Expect(entries[i].Phase).To(Equal("build"))
			Expect(entries[i].Index).To(Equal(i))
			Expect(entries[i].Inst).To(Equal(inst))
			Expect(entries[i].Text).To(Equal(inst.String()))
		}

		last := entries[len(entries)-1]
		Expect(last.Phase).To(Equal("reset"))
		Expect(last.Inst).To(Equal(reset[len(reset)-1]))
	})

	It("should refuse writes after close", func() {
		Expect(w.Close()).To(Succeed())
		Expect(w.Close()).To(Succeed())

		err := w.Write(tracelog.Entry{
			Inst: bcast.ClearSource(cgra.Loc(0, 0), cgra.PLModule, 1),
		})
		Expect(err).To(MatchError(os.ErrClosed))

		w.Hook("s1", "reset")(0, bcast.ClearSource(cgra.Loc(0, 0), cgra.PLModule, 1))
		Expect(w.Err()).To(MatchError(os.ErrClosed))
	})

	It("should read an empty log", func() {
		Expect(w.Close()).To(Succeed())

		entries, err := tracelog.ReadAll(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})
})
