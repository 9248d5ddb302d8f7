// Package l1 defines how a regulator node (L1 controller) is reached by
// its supervisors. A node registers through Registrars and receives
// commands as loop messages; supervisors use a Connector to discover
// nodes and a ControllerConn to send commands and receive events.
package l1

import (
	"context"

	fx "github.com/robotalks/regulator.go/pkg/framework"
)

// Registrar publishes a node to a registry.
type Registrar interface {
	// SendEvent sends an event to all connected supervisors.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received command waiting for its reply.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// ControllerRef identifies a node.
type ControllerRef struct {
	// Type is the node type, e.g. "xywth".
	Type string
	// ID is unique per machine.
	ID string
}

// Name returns "type/id".
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid reports whether both type and ID are set.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta describes a node.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo is what a registry knows about a node.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}

// Connector is used by supervisors to reach nodes.
type Connector interface {
	// Discover enumerates registered nodes.
	Discover(context.Context) ([]ControllerInfo, error)
	// Connect connects to a node.
	Connect(context.Context, ControllerRef) (ControllerConn, error)
}

// ControllerConn is a connection to a node.
type ControllerConn interface {
	// DoCommand sends a command.
	DoCommand(fx.Message) CommandFuture
	// Close disconnects.
	Close() error
}

// Result is the reply of a command. Err is set for a CommandErr reply,
// transport failures and expiration.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture delivers the Result of a command exactly once.
type CommandFuture interface {
	ResultChan() <-chan Result
}
