package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/cgra"
	"github.com/sarchlab/bcastnet/core"
)

//go:embed session.schema.json
var sessionSchemaText string

var sessionSchema = jsonschema.MustCompileString(
	"session.schema.json", sessionSchemaText)

// DeviceSpec describes the emulated device of a session.
type DeviceSpec struct {
	Name     string `yaml:"name"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Channels int    `yaml:"channels"`
}

// PartitionSpec is the column window of the session's partition.
type PartitionSpec struct {
	StartCol int `yaml:"start_col"`
	NumCols  int `yaml:"num_cols"`
}

// TileSpec is one enrolled tile and the metric set it traces.
type TileSpec struct {
	Col    int    `yaml:"col"`
	Row    int    `yaml:"row"`
	Metric string `yaml:"metric"`
}

// Session is a trace session file. It serves as the session metadata of the
// broadcast network.
type Session struct {
	Device        DeviceSpec    `yaml:"device"`
	PartitionSpec PartitionSpec `yaml:"partition"`
	FirstCompute  int           `yaml:"row_offset"`
	Channels      []int         `yaml:"channels"`
	TriggerEvent  int           `yaml:"trigger_event"`
	EventBase     *int          `yaml:"broadcast_event_base"`
	Tiles         []TileSpec    `yaml:"tiles"`
}

// LoadSession reads and validates a session file.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s, err := ParseSession(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// ParseSession decodes a session document and validates it against the
// session schema.
func ParseSession(raw []byte) (*Session, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("session yaml: %w", err)
	}

	// The schema validator works on JSON values.
	j, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("session yaml: %w", err)
	}

	var v any
	if err := json.Unmarshal(j, &v); err != nil {
		return nil, err
	}

	if err := sessionSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("session schema: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("session yaml: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Session) validate() error {
	if s.Channels[0] == s.Channels[1] {
		return fmt.Errorf("%w: both channels are %d",
			bcast.ErrInvariant, s.Channels[0])
	}

	if s.PartitionSpec.StartCol+s.PartitionSpec.NumCols > s.Device.Width {
		return fmt.Errorf("partition %s exceeds %d columns",
			s.Partition(), s.Device.Width)
	}

	if n := s.numChannels(); s.Channels[0] >= n || s.Channels[1] >= n {
		return fmt.Errorf("channels %v exceed the %d device channels",
			s.Channels, n)
	}

	for _, t := range s.Tiles {
		if t.Row >= s.Device.Height {
			return fmt.Errorf("tile (%d, %d) above the %d device rows",
				t.Col, t.Row, s.Device.Height)
		}
	}

	return nil
}

func (s *Session) numChannels() int {
	if s.Device.Channels == 0 {
		return core.DefaultNumChannels
	}

	return s.Device.Channels
}

// Partition returns the column window of the session.
func (s *Session) Partition() bcast.Window {
	return bcast.Window{
		StartCol: s.PartitionSpec.StartCol,
		NumCols:  s.PartitionSpec.NumCols,
	}
}

// ConfigMetrics maps the enrolled tiles to their metric sets.
func (s *Session) ConfigMetrics() map[cgra.TileLoc]string {
	metrics := make(map[cgra.TileLoc]string, len(s.Tiles))
	for _, t := range s.Tiles {
		metrics[cgra.Loc(t.Col, t.Row)] = t.Metric
	}

	return metrics
}

// RowOffset returns the first compute row.
func (s *Session) RowOffset() int {
	return s.FirstCompute
}

// BroadcastEventBase returns the broadcast event numbering base.
func (s *Session) BroadcastEventBase() bcast.Event {
	if s.EventBase == nil {
		return bcast.DefaultBroadcastEventBase
	}

	return bcast.Event(*s.EventBase)
}

// ChannelPair returns the two broadcast channels of the session.
func (s *Session) ChannelPair() (bcast.Channel, bcast.Channel) {
	return bcast.Channel(s.Channels[0]), bcast.Channel(s.Channels[1])
}

// Trigger returns the event that starts the trace.
func (s *Session) Trigger() bcast.Event {
	return bcast.Event(s.TriggerEvent)
}

// BuildDevice creates the emulated device the session describes.
func (s *Session) BuildDevice() *Device {
	name := s.Device.Name
	if name == "" {
		name = "Device"
	}

	return MakeBuilder().
		WithWidth(s.Device.Width).
		WithHeight(s.Device.Height).
		WithRowOffset(s.FirstCompute).
		WithChannels(s.numChannels()).
		Build(name)
}
