// Package comm carries typed messages between regulator nodes and their
// supervisors over any packet transport.
package comm

import "errors"

// ErrConnClosed fails commands pending when a ControllerConn is closed.
var ErrConnClosed = errors.New("connection closed")

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
