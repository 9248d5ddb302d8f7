// Package serial provides the xywth.Port over a serial device.
//
// A background goroutine drains the device into a receive buffer so the
// protocol client can poll Buffered without blocking.
package serial

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// Config is the serial line configuration.
type Config struct {
	// Name is the device, e.g. /dev/ttyUSB0.
	Name string
	Baud int
	// ReadTimeout bounds each read of the background reader so Close
	// does not wait for traffic.
	ReadTimeout time.Duration
	// BufferSize bounds the receive buffer. Older bytes are dropped when
	// the client falls behind.
	BufferSize int
}

var defaultConfig = Config{
	Name:        "/dev/ttyUSB0",
	Baud:        9600,
	ReadTimeout: 100 * time.Millisecond,
	BufferSize:  256,
}

func init() {
	if val := os.Getenv("REG_SERIAL_PORT"); val != "" {
		defaultConfig.Name = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Name, "serial", defaultConfig.Name, "Serial device of the relay module")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ErrClosed is returned by operations on a closed Port.
var ErrClosed = errors.New("serial port closed")

// Port is a buffered serial line.
type Port struct {
	dev  io.ReadWriteCloser
	size int

	buf    []byte
	err    error
	closed bool
	lock   sync.Mutex
	doneCh chan struct{}
}

// Open opens the serial device and starts the background reader.
func (c *Config) Open() (*Port, error) {
	dev, err := serial.OpenPort(&serial.Config{
		Name:        c.Name,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", c.Name, err)
	}
	glog.Infof("serial %s opened at %d baud", c.Name, c.Baud)
	return NewPort(dev, c.BufferSize), nil
}

// NewPort wraps an opened device. The device Read must return periodically
// even without traffic.
func NewPort(dev io.ReadWriteCloser, bufferSize int) *Port {
	if bufferSize <= 0 {
		bufferSize = defaultConfig.BufferSize
	}
	p := &Port{dev: dev, size: bufferSize, doneCh: make(chan struct{})}
	go p.readLoop()
	return p
}

func (p *Port) readLoop() {
	defer close(p.doneCh)
	data := make([]byte, 64)
	for {
		n, err := p.dev.Read(data)
		p.lock.Lock()
		if p.closed {
			p.lock.Unlock()
			return
		}
		if n > 0 {
			p.buf = append(p.buf, data[:n]...)
			if over := len(p.buf) - p.size; over > 0 {
				glog.Warningf("serial receive buffer overrun, %d bytes dropped", over)
				p.buf = append(p.buf[:0], p.buf[over:]...)
			}
		}
		if err != nil && err != io.EOF {
			p.err = err
			p.lock.Unlock()
			glog.Errorf("serial read error: %v", err)
			return
		}
		p.lock.Unlock()
	}
}

// Write implements io.Writer.
func (p *Port) Write(data []byte) (int, error) {
	p.lock.Lock()
	closed := p.closed
	p.lock.Unlock()
	if closed {
		return 0, ErrClosed
	}
	return p.dev.Write(data)
}

// Buffered returns the number of received bytes not yet read.
func (p *Port) Buffered() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.buf)
}

// ReadByte implements io.ByteReader. It never blocks: with nothing
// buffered it returns the reader error, or io.EOF.
func (p *Port) ReadByte() (byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.buf) == 0 {
		if p.err != nil {
			return 0, p.err
		}
		if p.closed {
			return 0, ErrClosed
		}
		return 0, io.EOF
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, nil
}

// Close closes the device and waits for the reader to stop.
func (p *Port) Close() error {
	p.lock.Lock()
	if p.closed {
		p.lock.Unlock()
		return nil
	}
	p.closed = true
	p.lock.Unlock()
	err := p.dev.Close()
	<-p.doneCh
	return err
}
