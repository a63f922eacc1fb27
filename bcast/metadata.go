package bcast

import "github.com/sarchlab/bcastnet/cgra"

// Metadata is the read-only view of a trace session the network needs.
type Metadata interface {
	// Partition returns the column window of the live partition.
	Partition() Window
	// ConfigMetrics maps every enrolled tile to its metric set.
	ConfigMetrics() map[cgra.TileLoc]string
	// RowOffset is the first compute row.
	RowOffset() int
}

// EventBaser is implemented by metadata that knows the broadcast event
// numbering of its device.
type EventBaser interface {
	BroadcastEventBase() Event
}

// TileRole classifies an absolute row of the session's partition.
func TileRole(md Metadata, row int) cgra.Role {
	return cgra.ClassifyRow(row, md.RowOffset())
}

// NewNetwork derives the network of a session. The footprint is computed from
// the enrolled tiles each time, so a build and a reset over the same
// enrollment agree.
func NewNetwork(md Metadata, ch1, ch2 Channel) Network {
	w := md.Partition()

	base := DefaultBroadcastEventBase
	if eb, ok := md.(EventBaser); ok {
		base = eb.BroadcastEventBase()
	}

	return Network{
		Window:    w,
		Footprint: NewFootprint(w, md.ConfigMetrics()),
		RowOffset: md.RowOffset(),
		Channel1:  ch1,
		Channel2:  ch2,
		EventBase: base,
	}
}

// BuildNetwork primes the broadcast network of the session on the device.
func BuildNetwork(
	dev Device,
	md Metadata,
	ch1, ch2 Channel,
	trigger Event,
) error {
	prog, err := NewNetwork(md, ch1, ch2).Build(trigger)
	if err != nil {
		return err
	}

	return Apply(dev, prog)
}

// ResetNetwork retracts the broadcast network of the session from the device.
func ResetNetwork(dev Device, md Metadata, ch1, ch2 Channel) error {
	prog, err := NewNetwork(md, ch1, ch2).Reset()
	if err != nil {
		return err
	}

	return Apply(dev, prog)
}
