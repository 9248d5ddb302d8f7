package thermostat

import "errors"

var (
	// ErrNoData is returned by ReadByte when no byte is due.
	ErrNoData = errors.New("no data")
	// ErrUnknownCommand is logged for commands the module rejects.
	ErrUnknownCommand = errors.New("unknown command")
)
