//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	fx "github.com/robotalks/regulator.go/pkg/framework"
)

// RealWriter drives a line through the GPIO character device.
type RealWriter struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealWriter requests offset on chip as an output, initially inactive.
func NewRealWriter(chip string, offset int, activeLow bool) (*RealWriter, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	line, err := c.RequestLine(offset, opts...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("request output line %d: %w", offset, err)
	}
	return &RealWriter{chip: c, line: line}, nil
}

// Write implements Writer.
func (w *RealWriter) Write(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := w.line.SetValue(v); err != nil {
		return fmt.Errorf("set line %d: %w", w.line.Offset(), err)
	}
	return nil
}

// Close implements Writer.
func (w *RealWriter) Close() error {
	var errs fx.AggregatedError
	if w.line != nil {
		errs.Add(
			w.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown),
			w.line.Close(),
		)
	}
	if w.chip != nil {
		errs.Add(w.chip.Close())
	}
	return errs.Aggregate()
}
