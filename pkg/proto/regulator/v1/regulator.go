// Package v1 holds the wire messages of regulator.proto.
//
// The types are written by hand and encoded by the reflection based codec
// of github.com/golang/protobuf, which reads the protobuf struct tags.
// Keep field numbers in sync with regulator.proto.
package v1

import (
	proto "github.com/golang/protobuf/proto"
)

type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

func (m *Typed) GetTypeId() uint32 {
	if m != nil {
		return m.TypeId
	}
	return 0
}

func (m *Typed) GetSequence() uint32 {
	if m != nil {
		return m.Sequence
	}
	return 0
}

func (m *Typed) GetMessage() []byte {
	if m != nil {
		return m.Message
	}
	return nil
}

type CommandOK struct {
}

func (m *CommandOK) Reset()         { *m = CommandOK{} }
func (m *CommandOK) String() string { return proto.CompactTextString(m) }
func (*CommandOK) ProtoMessage()    {}

type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErr) Reset()         { *m = CommandErr{} }
func (m *CommandErr) String() string { return proto.CompactTextString(m) }
func (*CommandErr) ProtoMessage()    {}

func (m *CommandErr) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

type Reading struct {
	Position         uint32 `protobuf:"varint,1,opt,name=position,proto3" json:"position,omitempty"`
	Timestamp        uint32 `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Temperature      int32  `protobuf:"varint,3,opt,name=temperature,proto3" json:"temperature,omitempty"`
	Humidity         int32  `protobuf:"varint,4,opt,name=humidity,proto3" json:"humidity,omitempty"`
	TemperatureRelay bool   `protobuf:"varint,5,opt,name=temperature_relay,json=temperatureRelay,proto3" json:"temperature_relay,omitempty"`
	HumidityRelay    bool   `protobuf:"varint,6,opt,name=humidity_relay,json=humidityRelay,proto3" json:"humidity_relay,omitempty"`
}

func (m *Reading) Reset()         { *m = Reading{} }
func (m *Reading) String() string { return proto.CompactTextString(m) }
func (*Reading) ProtoMessage()    {}

func (m *Reading) GetPosition() uint32 {
	if m != nil {
		return m.Position
	}
	return 0
}

func (m *Reading) GetTimestamp() uint32 {
	if m != nil {
		return m.Timestamp
	}
	return 0
}

func (m *Reading) GetTemperature() int32 {
	if m != nil {
		return m.Temperature
	}
	return 0
}

func (m *Reading) GetHumidity() int32 {
	if m != nil {
		return m.Humidity
	}
	return 0
}

func (m *Reading) GetTemperatureRelay() bool {
	if m != nil {
		return m.TemperatureRelay
	}
	return false
}

func (m *Reading) GetHumidityRelay() bool {
	if m != nil {
		return m.HumidityRelay
	}
	return false
}

type DutyState struct {
	OnMs    uint32 `protobuf:"varint,1,opt,name=on_ms,json=onMs,proto3" json:"on_ms,omitempty"`
	OffMs   uint32 `protobuf:"varint,2,opt,name=off_ms,json=offMs,proto3" json:"off_ms,omitempty"`
	Enabled bool   `protobuf:"varint,3,opt,name=enabled,proto3" json:"enabled,omitempty"`
	Output  bool   `protobuf:"varint,4,opt,name=output,proto3" json:"output,omitempty"`
}

func (m *DutyState) Reset()         { *m = DutyState{} }
func (m *DutyState) String() string { return proto.CompactTextString(m) }
func (*DutyState) ProtoMessage()    {}

func (m *DutyState) GetOnMs() uint32 {
	if m != nil {
		return m.OnMs
	}
	return 0
}

func (m *DutyState) GetOffMs() uint32 {
	if m != nil {
		return m.OffMs
	}
	return 0
}

func (m *DutyState) GetEnabled() bool {
	if m != nil {
		return m.Enabled
	}
	return false
}

func (m *DutyState) GetOutput() bool {
	if m != nil {
		return m.Output
	}
	return false
}

type RelaySet struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	On      bool   `protobuf:"varint,2,opt,name=on,proto3" json:"on,omitempty"`
}

func (m *RelaySet) Reset()         { *m = RelaySet{} }
func (m *RelaySet) String() string { return proto.CompactTextString(m) }
func (*RelaySet) ProtoMessage()    {}

func (m *RelaySet) GetChannel() uint32 {
	if m != nil {
		return m.Channel
	}
	return 0
}

func (m *RelaySet) GetOn() bool {
	if m != nil {
		return m.On
	}
	return false
}

type ThresholdSet struct {
	Threshold string  `protobuf:"bytes,1,opt,name=threshold,proto3" json:"threshold,omitempty"`
	Value     float64 `protobuf:"fixed64,2,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *ThresholdSet) Reset()         { *m = ThresholdSet{} }
func (m *ThresholdSet) String() string { return proto.CompactTextString(m) }
func (*ThresholdSet) ProtoMessage()    {}

func (m *ThresholdSet) GetThreshold() string {
	if m != nil {
		return m.Threshold
	}
	return ""
}

func (m *ThresholdSet) GetValue() float64 {
	if m != nil {
		return m.Value
	}
	return 0
}

type CaptureSet struct {
	Enabled    bool   `protobuf:"varint,1,opt,name=enabled,proto3" json:"enabled,omitempty"`
	IntervalMs uint32 `protobuf:"varint,2,opt,name=interval_ms,json=intervalMs,proto3" json:"interval_ms,omitempty"`
}

func (m *CaptureSet) Reset()         { *m = CaptureSet{} }
func (m *CaptureSet) String() string { return proto.CompactTextString(m) }
func (*CaptureSet) ProtoMessage()    {}

func (m *CaptureSet) GetEnabled() bool {
	if m != nil {
		return m.Enabled
	}
	return false
}

func (m *CaptureSet) GetIntervalMs() uint32 {
	if m != nil {
		return m.IntervalMs
	}
	return 0
}

type DutySet struct {
	OnMs    uint32 `protobuf:"varint,1,opt,name=on_ms,json=onMs,proto3" json:"on_ms,omitempty"`
	OffMs   uint32 `protobuf:"varint,2,opt,name=off_ms,json=offMs,proto3" json:"off_ms,omitempty"`
	Enabled bool   `protobuf:"varint,3,opt,name=enabled,proto3" json:"enabled,omitempty"`
}

func (m *DutySet) Reset()         { *m = DutySet{} }
func (m *DutySet) String() string { return proto.CompactTextString(m) }
func (*DutySet) ProtoMessage()    {}

func (m *DutySet) GetOnMs() uint32 {
	if m != nil {
		return m.OnMs
	}
	return 0
}

func (m *DutySet) GetOffMs() uint32 {
	if m != nil {
		return m.OffMs
	}
	return 0
}

func (m *DutySet) GetEnabled() bool {
	if m != nil {
		return m.Enabled
	}
	return false
}

type ClockSet struct {
	Epoch uint32 `protobuf:"varint,1,opt,name=epoch,proto3" json:"epoch,omitempty"`
}

func (m *ClockSet) Reset()         { *m = ClockSet{} }
func (m *ClockSet) String() string { return proto.CompactTextString(m) }
func (*ClockSet) ProtoMessage()    {}

func (m *ClockSet) GetEpoch() uint32 {
	if m != nil {
		return m.Epoch
	}
	return 0
}

type ModuleReset struct {
}

func (m *ModuleReset) Reset()         { *m = ModuleReset{} }
func (m *ModuleReset) String() string { return proto.CompactTextString(m) }
func (*ModuleReset) ProtoMessage()    {}

type StatusQuery struct {
}

func (m *StatusQuery) Reset()         { *m = StatusQuery{} }
func (m *StatusQuery) String() string { return proto.CompactTextString(m) }
func (*StatusQuery) ProtoMessage()    {}

type Status struct {
	Capturing         bool       `protobuf:"varint,1,opt,name=capturing,proto3" json:"capturing,omitempty"`
	CaptureIntervalMs uint32     `protobuf:"varint,2,opt,name=capture_interval_ms,json=captureIntervalMs,proto3" json:"capture_interval_ms,omitempty"`
	Cursor            uint32     `protobuf:"varint,3,opt,name=cursor,proto3" json:"cursor,omitempty"`
	Latest            *Reading   `protobuf:"bytes,4,opt,name=latest,proto3" json:"latest,omitempty"`
	Duty              *DutyState `protobuf:"bytes,5,opt,name=duty,proto3" json:"duty,omitempty"`
	Epoch             uint32     `protobuf:"varint,6,opt,name=epoch,proto3" json:"epoch,omitempty"`
}

func (m *Status) Reset()         { *m = Status{} }
func (m *Status) String() string { return proto.CompactTextString(m) }
func (*Status) ProtoMessage()    {}

func (m *Status) GetCapturing() bool {
	if m != nil {
		return m.Capturing
	}
	return false
}

func (m *Status) GetCaptureIntervalMs() uint32 {
	if m != nil {
		return m.CaptureIntervalMs
	}
	return 0
}

func (m *Status) GetCursor() uint32 {
	if m != nil {
		return m.Cursor
	}
	return 0
}

func (m *Status) GetLatest() *Reading {
	if m != nil {
		return m.Latest
	}
	return nil
}

func (m *Status) GetDuty() *DutyState {
	if m != nil {
		return m.Duty
	}
	return nil
}

func (m *Status) GetEpoch() uint32 {
	if m != nil {
		return m.Epoch
	}
	return 0
}

type HistoryQuery struct {
	Since uint32 `protobuf:"varint,1,opt,name=since,proto3" json:"since,omitempty"`
}

func (m *HistoryQuery) Reset()         { *m = HistoryQuery{} }
func (m *HistoryQuery) String() string { return proto.CompactTextString(m) }
func (*HistoryQuery) ProtoMessage()    {}

func (m *HistoryQuery) GetSince() uint32 {
	if m != nil {
		return m.Since
	}
	return 0
}

type History struct {
	Readings []*Reading `protobuf:"bytes,1,rep,name=readings,proto3" json:"readings,omitempty"`
	Next     uint32     `protobuf:"varint,2,opt,name=next,proto3" json:"next,omitempty"`
}

func (m *History) Reset()         { *m = History{} }
func (m *History) String() string { return proto.CompactTextString(m) }
func (*History) ProtoMessage()    {}

func (m *History) GetReadings() []*Reading {
	if m != nil {
		return m.Readings
	}
	return nil
}

func (m *History) GetNext() uint32 {
	if m != nil {
		return m.Next
	}
	return 0
}

type ReadingEvent struct {
	Reading *Reading `protobuf:"bytes,1,opt,name=reading,proto3" json:"reading,omitempty"`
}

func (m *ReadingEvent) Reset()         { *m = ReadingEvent{} }
func (m *ReadingEvent) String() string { return proto.CompactTextString(m) }
func (*ReadingEvent) ProtoMessage()    {}

func (m *ReadingEvent) GetReading() *Reading {
	if m != nil {
		return m.Reading
	}
	return nil
}

type DutyOutputEvent struct {
	On    bool   `protobuf:"varint,1,opt,name=on,proto3" json:"on,omitempty"`
	Ticks uint32 `protobuf:"varint,2,opt,name=ticks,proto3" json:"ticks,omitempty"`
}

func (m *DutyOutputEvent) Reset()         { *m = DutyOutputEvent{} }
func (m *DutyOutputEvent) String() string { return proto.CompactTextString(m) }
func (*DutyOutputEvent) ProtoMessage()    {}

func (m *DutyOutputEvent) GetOn() bool {
	if m != nil {
		return m.On
	}
	return false
}

func (m *DutyOutputEvent) GetTicks() uint32 {
	if m != nil {
		return m.Ticks
	}
	return 0
}
