package msgs

import (
	"github.com/robotalks/regulator.go/pkg/clock"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	pb "github.com/robotalks/regulator.go/pkg/proto/regulator/v1"
)

// ReadingFrom converts a committed reading at a history position.
func ReadingFrom(pos uint32, r xywth.Reading) *pb.Reading {
	return &pb.Reading{
		Position:         pos,
		Timestamp:        r.Timestamp,
		Temperature:      int32(r.Temperature),
		Humidity:         int32(r.Humidity),
		TemperatureRelay: r.Relays[xywth.RelayTemperature],
		HumidityRelay:    r.Relays[xywth.RelayHumidity],
	}
}

// ReadingOf converts back to the module reading and its position.
func ReadingOf(p *pb.Reading) (uint32, xywth.Reading) {
	var r xywth.Reading
	if p == nil {
		return 0, r
	}
	r.Timestamp = p.Timestamp
	r.Temperature = int16(p.Temperature)
	r.Humidity = int16(p.Humidity)
	r.Relays[xywth.RelayTemperature] = p.TemperatureRelay
	r.Relays[xywth.RelayHumidity] = p.HumidityRelay
	return p.Position, r
}

// NewReadingEvent creates the event of a committed reading.
func NewReadingEvent(pos uint32, r xywth.Reading) *ReadingEvent {
	return &ReadingEvent{ReadingEvent: pb.ReadingEvent{Reading: ReadingFrom(pos, r)}}
}

// NewDutyOutputEvent creates the event of a duty-cycle output edge.
func NewDutyOutputEvent(on bool, ticks clock.Ticks) *DutyOutputEvent {
	return &DutyOutputEvent{DutyOutputEvent: pb.DutyOutputEvent{On: on, Ticks: uint32(ticks)}}
}
