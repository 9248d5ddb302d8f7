package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/regulator.go/pkg/framework"
	pb "github.com/robotalks/regulator.go/pkg/proto/regulator/v1"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
	pb.CommandOK
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return &m.CommandOK }

// CommandErr is the generic reply of a failed command.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{
		CommandErr: pb.CommandErr{
			Message: message,
		},
	}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// RelaySet command switches a relay channel of the module.
type RelaySet struct {
	pb.RelaySet
}

// NewMessage implements Message.
func (m *RelaySet) NewMessage() fx.Message { return &RelaySet{} }

// TypeID implements SerializableMessage.
func (m *RelaySet) TypeID() uint32 { return RelaySetTypeID }

// Serializable implements SerializableMessage.
func (m *RelaySet) Serializable() proto.Message { return &m.RelaySet }

// ThresholdSet command programs a switching threshold.
type ThresholdSet struct {
	pb.ThresholdSet
}

// NewMessage implements Message.
func (m *ThresholdSet) NewMessage() fx.Message { return &ThresholdSet{} }

// TypeID implements SerializableMessage.
func (m *ThresholdSet) TypeID() uint32 { return ThresholdSetTypeID }

// Serializable implements SerializableMessage.
func (m *ThresholdSet) Serializable() proto.Message { return &m.ThresholdSet }

// CaptureSet command starts or stops periodic capture.
type CaptureSet struct {
	pb.CaptureSet
}

// NewMessage implements Message.
func (m *CaptureSet) NewMessage() fx.Message { return &CaptureSet{} }

// TypeID implements SerializableMessage.
func (m *CaptureSet) TypeID() uint32 { return CaptureSetTypeID }

// Serializable implements SerializableMessage.
func (m *CaptureSet) Serializable() proto.Message { return &m.CaptureSet }

// DutySet command configures the duty-cycle output.
type DutySet struct {
	pb.DutySet
}

// NewMessage implements Message.
func (m *DutySet) NewMessage() fx.Message { return &DutySet{} }

// TypeID implements SerializableMessage.
func (m *DutySet) TypeID() uint32 { return DutySetTypeID }

// Serializable implements SerializableMessage.
func (m *DutySet) Serializable() proto.Message { return &m.DutySet }

// ClockSet command sets the wall clock through the RTC registers.
type ClockSet struct {
	pb.ClockSet
}

// NewMessage implements Message.
func (m *ClockSet) NewMessage() fx.Message { return &ClockSet{} }

// TypeID implements SerializableMessage.
func (m *ClockSet) TypeID() uint32 { return ClockSetTypeID }

// Serializable implements SerializableMessage.
func (m *ClockSet) Serializable() proto.Message { return &m.ClockSet }

// ModuleReset command restores the module defaults.
type ModuleReset struct {
	pb.ModuleReset
}

// NewMessage implements Message.
func (m *ModuleReset) NewMessage() fx.Message { return &ModuleReset{} }

// TypeID implements SerializableMessage.
func (m *ModuleReset) TypeID() uint32 { return ModuleResetTypeID }

// Serializable implements SerializableMessage.
func (m *ModuleReset) Serializable() proto.Message { return &m.ModuleReset }

// StatusQuery command.
type StatusQuery struct {
	pb.StatusQuery
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() fx.Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return &m.StatusQuery }

// Status response.
type Status struct {
	pb.Status
}

// NewMessage implements Message.
func (m *Status) NewMessage() fx.Message { return &Status{} }

// TypeID implements SerializableMessage.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// Serializable implements SerializableMessage.
func (m *Status) Serializable() proto.Message { return &m.Status }

// HistoryQuery command retrieves readings from a history position.
type HistoryQuery struct {
	pb.HistoryQuery
}

// NewMessage implements Message.
func (m *HistoryQuery) NewMessage() fx.Message { return &HistoryQuery{} }

// TypeID implements SerializableMessage.
func (m *HistoryQuery) TypeID() uint32 { return HistoryQueryTypeID }

// Serializable implements SerializableMessage.
func (m *HistoryQuery) Serializable() proto.Message { return &m.HistoryQuery }

// History response.
type History struct {
	pb.History
}

// NewMessage implements Message.
func (m *History) NewMessage() fx.Message { return &History{} }

// TypeID implements SerializableMessage.
func (m *History) TypeID() uint32 { return HistoryTypeID }

// Serializable implements SerializableMessage.
func (m *History) Serializable() proto.Message { return &m.History }

// ReadingEvent is emitted for every committed reading.
type ReadingEvent struct {
	pb.ReadingEvent
}

// NewMessage implements Message.
func (m *ReadingEvent) NewMessage() fx.Message { return &ReadingEvent{} }

// TypeID implements SerializableMessage.
func (m *ReadingEvent) TypeID() uint32 { return ReadingEventTypeID }

// Serializable implements SerializableMessage.
func (m *ReadingEvent) Serializable() proto.Message { return &m.ReadingEvent }

// DutyOutputEvent is emitted on every edge of the duty-cycle output.
type DutyOutputEvent struct {
	pb.DutyOutputEvent
}

// NewMessage implements Message.
func (m *DutyOutputEvent) NewMessage() fx.Message { return &DutyOutputEvent{} }

// TypeID implements SerializableMessage.
func (m *DutyOutputEvent) TypeID() uint32 { return DutyOutputEventTypeID }

// Serializable implements SerializableMessage.
func (m *DutyOutputEvent) Serializable() proto.Message { return &m.DutyOutputEvent }

// TypeID Groups
const (
	GroupCommand   uint32 = 0x00000000
	GroupRegulator uint32 = 0x00030000
	GroupCustom    uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID       uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	RelaySetTypeID        uint32 = GroupRegulator | 0x0001
	ThresholdSetTypeID    uint32 = GroupRegulator | 0x0002
	CaptureSetTypeID      uint32 = GroupRegulator | 0x0003
	DutySetTypeID         uint32 = GroupRegulator | 0x0004
	ClockSetTypeID        uint32 = GroupRegulator | 0x0005
	ModuleResetTypeID     uint32 = GroupRegulator | 0x0006
	StatusQueryTypeID     uint32 = GroupRegulator | 0x0010
	StatusTypeID          uint32 = StatusQueryTypeID | TypeIDMaskReply
	HistoryQueryTypeID    uint32 = GroupRegulator | 0x0011
	HistoryTypeID         uint32 = HistoryQueryTypeID | TypeIDMaskReply
	ReadingEventTypeID    uint32 = TypeIDKindEvent | GroupRegulator | 0x0001
	DutyOutputEventTypeID uint32 = TypeIDKindEvent | GroupRegulator | 0x0002
)
