// Package xywth implements the host side of the XY-WTH1 relay module line
// protocol.
//
// The module is a temperature/humidity thermostat with two relay channels
// (heating/cooling and humidity) reachable over a half-duplex serial link.
// It accepts short ASCII commands and, while capture is started, streams
// one temperature line and one humidity line per report:
//
//	23.5 OFF
//	45.2% OFF
//
// A line containing '%' is a humidity line, otherwise it is a temperature
// line. "OFF" marks the relay of that channel inactive. The reading is the
// concatenation of all digits in tenths of a unit.
//
// Producer: XY-WTH1 module
// Consumer: regulator controller
package xywth
