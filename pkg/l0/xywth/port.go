package xywth

import "io"

// Port is the byte transport to the module.
// Reads must never block: the client only calls ReadByte after Buffered
// reported pending bytes.
type Port interface {
	io.Writer
	io.ByteReader
	// Buffered returns the number of received bytes ready to be read.
	Buffered() int
}
