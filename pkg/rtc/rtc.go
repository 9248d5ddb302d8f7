// Package rtc exposes a wall clock as a bank of 16-bit registers, the way
// a field bus master sees the real-time clock of the regulator.
//
// Registers 0 to 6 hold the calendar fields. The 32-bit Unix epoch is split
// into a low (7) and a high (8) half. Writing the low half only stages it;
// writing the high half commits both halves at once.
package rtc

import (
	"errors"
	"time"
)

// Register addresses.
const (
	RegYear uint8 = iota
	RegMonth
	RegDay
	RegHour
	RegMinute
	RegSecond
	RegWeekday
	RegEpochLow
	RegEpochHigh
)

// Valid year range of RegYear.
const (
	MinYear = 2000
	MaxYear = 2099
)

var (
	// ErrIllegalRegister indicates an unknown register address.
	ErrIllegalRegister = errors.New("illegal register")
	// ErrIllegalValue indicates a value out of range for the register.
	ErrIllegalValue = errors.New("illegal value")
)

// WallClock is the clock behind the registers.
type WallClock interface {
	Time() time.Time
	SetTime(time.Time)
}

// Registers is the register view of a WallClock. Calendar fields are in UTC.
type Registers struct {
	Clock WallClock

	staged    uint32
	hasStaged bool
}

// New creates Registers over clk.
func New(clk WallClock) *Registers {
	return &Registers{Clock: clk}
}

// Read returns the value of a register.
func (r *Registers) Read(reg uint8) (uint16, error) {
	t := r.Clock.Time().UTC()
	switch reg {
	case RegYear:
		return uint16(t.Year()), nil
	case RegMonth:
		return uint16(t.Month()), nil
	case RegDay:
		return uint16(t.Day()), nil
	case RegHour:
		return uint16(t.Hour()), nil
	case RegMinute:
		return uint16(t.Minute()), nil
	case RegSecond:
		return uint16(t.Second()), nil
	case RegWeekday:
		return uint16(t.Weekday()), nil
	case RegEpochLow:
		return uint16(uint32(t.Unix())), nil
	case RegEpochHigh:
		return uint16(uint32(t.Unix()) >> 16), nil
	}
	return 0, ErrIllegalRegister
}

// Write sets a register. Calendar writes replace a single field and keep
// the others. A weekday write moves the date within the current week,
// which starts on Sunday.
func (r *Registers) Write(reg uint8, value uint16) error {
	t := r.Clock.Time().UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	v := int(value)
	switch reg {
	case RegYear:
		if v < MinYear || v > MaxYear {
			return ErrIllegalValue
		}
		year = v
	case RegMonth:
		if v < 1 || v > 12 {
			return ErrIllegalValue
		}
		month = time.Month(v)
	case RegDay:
		if v < 1 || v > 31 {
			return ErrIllegalValue
		}
		day = v
	case RegHour:
		if v > 23 {
			return ErrIllegalValue
		}
		hour = v
	case RegMinute:
		if v > 59 {
			return ErrIllegalValue
		}
		min = v
	case RegSecond:
		if v > 59 {
			return ErrIllegalValue
		}
		sec = v
	case RegWeekday:
		if v > 6 {
			return ErrIllegalValue
		}
		day += v - int(t.Weekday())
	case RegEpochLow:
		r.staged = r.stagedOr(t)&0xffff0000 | uint32(value)
		r.hasStaged = true
		return nil
	case RegEpochHigh:
		epoch := r.stagedOr(t)&0xffff | uint32(value)<<16
		r.hasStaged = false
		r.Clock.SetTime(time.Unix(int64(epoch), 0))
		return nil
	default:
		return ErrIllegalRegister
	}
	// out-of-range days roll over into the next month
	r.Clock.SetTime(time.Date(year, month, day, hour, min, sec, t.Nanosecond(), time.UTC))
	return nil
}

// SetEpoch writes both epoch halves.
func (r *Registers) SetEpoch(epoch uint32) error {
	if err := r.Write(RegEpochLow, uint16(epoch)); err != nil {
		return err
	}
	return r.Write(RegEpochHigh, uint16(epoch>>16))
}

func (r *Registers) stagedOr(t time.Time) uint32 {
	if r.hasStaged {
		return r.staged
	}
	return uint32(t.Unix())
}
