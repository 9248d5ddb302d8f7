// Package stream frames packets over a byte stream such as a TCP
// connection or a pipe.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxPacketSize bounds a received packet. A full history reply is well
// below it.
const MaxPacketSize = 64 << 10

// ErrPacketTooLarge indicates a length prefix above MaxPacketSize, usually
// a desynchronized stream.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by its length as 4 bytes little-endian.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter over s.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	_, err := io.ReadFull(p, pkt)
	return pkt, err
}

// WritePacket implements PacketWriter. The prefix and payload are written
// with a single Write.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.Write(buf)
	return err
}
