package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
	"github.com/sarchlab/bcastnet/config"
)

const sessionYAML = `
device:
  name: npu
  width: 6
  height: 5
partition:
  start_col: 2
  num_cols: 3
row_offset: 1
channels: [6, 7]
trigger_event: 127
broadcast_event_base: 100
tiles:
  - {col: 2, row: 1, metric: heat_map}
  - {col: 4, row: 2, metric: stalls}
  - {col: 4, row: 1}
`

var _ = Describe("Session", func() {
	It("should parse a session", func() {
		s, err := config.ParseSession([]byte(sessionYAML))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Partition()).To(Equal(bcast.Window{StartCol: 2, NumCols: 3}))
		Expect(s.RowOffset()).To(Equal(1))
		Expect(s.Trigger()).To(Equal(bcast.Event(127)))
		Expect(s.BroadcastEventBase()).To(Equal(bcast.Event(100)))

		c1, c2 := s.ChannelPair()
		Expect(c1).To(Equal(bcast.Channel(6)))
		Expect(c2).To(Equal(bcast.Channel(7)))

		Expect(s.ConfigMetrics()).To(Equal(map[cgra.TileLoc]string{
			cgra.Loc(2, 1): "heat_map",
			cgra.Loc(4, 2): "stalls",
			cgra.Loc(4, 1): "",
		}))

		net := bcast.NewNetwork(s, c1, c2)
		Expect(net.Footprint).To(Equal(bcast.Footprint{1, 0, 2}))
		Expect(net.EventBase).To(Equal(bcast.Event(100)))
	})

	It("should build the described device", func() {
		s, err := config.ParseSession([]byte(sessionYAML))
		Expect(err).NotTo(HaveOccurred())

		dev := s.BuildDevice()
		Expect(dev.Name).To(Equal("npu"))
		w, h := dev.GetSize()
		Expect(w).To(Equal(6))
		Expect(h).To(Equal(5))
		Expect(dev.RowOffset).To(Equal(1))
	})

	It("should default the event base", func() {
		s, err := config.ParseSession([]byte(`
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [0, 1]
trigger_event: 3
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BroadcastEventBase()).To(Equal(bcast.DefaultBroadcastEventBase))
		Expect(s.ConfigMetrics()).To(BeEmpty())
	})

	DescribeTable("should reject invalid sessions",
		func(doc string) {
			_, err := config.ParseSession([]byte(doc))
			Expect(err).To(HaveOccurred())
		},
		Entry("missing partition", `
device: {width: 2, height: 2}
row_offset: 1
channels: [0, 1]
trigger_event: 3
`),
		Entry("one channel", `
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [0]
trigger_event: 3
`),
		Entry("zero row offset", `
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 0
channels: [0, 1]
trigger_event: 3
`),
		Entry("unknown field", `
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [0, 1]
trigger_event: 3
colour: red
`),
		Entry("partition wider than device", `
device: {width: 2, height: 2}
partition: {start_col: 1, num_cols: 2}
row_offset: 1
channels: [0, 1]
trigger_event: 3
`),
		Entry("channel beyond device", `
device: {width: 2, height: 2, channels: 4}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [0, 4]
trigger_event: 3
`),
		Entry("tile above device", `
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [0, 1]
trigger_event: 3
tiles: [{col: 0, row: 2}]
`),
		Entry("event base beyond the event range", `
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [0, 1]
trigger_event: 3
broadcast_event_base: 65535
`),
		Entry("not yaml", "device: [width"),
	)

	It("should reject a shared channel as an invariant violation", func() {
		_, err := config.ParseSession([]byte(`
device: {width: 2, height: 2}
partition: {start_col: 0, num_cols: 2}
row_offset: 1
channels: [5, 5]
trigger_event: 3
`))
		Expect(err).To(MatchError(bcast.ErrInvariant))
	})

	It("should load a session file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "session.yaml")
		Expect(os.WriteFile(path, []byte(sessionYAML), 0o644)).To(Succeed())

		s, err := config.LoadSession(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tiles).To(HaveLen(3))

		_, err = config.LoadSession(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})
})
