// Package framework runs controllers in a cooperative loop. All
// controllers of a Loop are invoked from a single goroutine in priority
// order, so the state they own needs no locking. Background work is done
// by Runnables which hand results to the loop with PostMessage.
package framework

import (
	"context"
	"time"

	"github.com/robotalks/regulator.go/pkg/clock"
)

// Named is implemented by things with a name.
type Named interface {
	Name() string
}

// Runnable is a background worker which runs until the context is done.
type Runnable interface {
	Run(context.Context) error
}

// Message is consumed by controllers in a loop iteration.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// MessageHandler processes a message.
type MessageHandler interface {
	HandleMessage(context.Context, Message)
}

// HandleMessageFunc is the func form of MessageHandler.
type HandleMessageFunc func(context.Context, Message)

// HandleMessage implements MessageHandler.
func (f HandleMessageFunc) HandleMessage(ctx context.Context, msg Message) {
	f(ctx, msg)
}

// Controller is invoked once per loop iteration at its priority level.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// TimeSource provides the time sampled when an iteration starts.
type TimeSource interface {
	// Time is the wall-clock time.
	Time() time.Time
	// Ticks is the millisecond counter of the loop clock.
	Ticks() clock.Ticks
}

// ControlContext is the view of the current iteration given to controllers.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Messages retrieves the messages collected when the iteration started.
	Messages() MessageStore
	// PostRun installs one-shot hooks after the controllers of the current
	// priority level. Hooks installed from a post-run hook run in the next
	// iteration.
	PostRun(hooks ...Controller)

	LoopControl
}

// PriorityLevels is the number of priority levels.
const PriorityLevels int = 16

// Priority levels.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is where readings are captured.
	PrLvSense = PrLvHigh
	// PrLvControl is where commands are applied.
	PrLvControl = PrLvNormal
	// PrLvActuate is where outputs are driven.
	PrLvActuate = PrLvLow
	// PrLvPostProc is where events are published.
	PrLvPostProc = PrLvIdle - 1
)

// LoopControl gives access to the running loop.
type LoopControl interface {
	// PreRunAt installs one-shot hooks before the controllers of a level.
	PreRunAt(priorityLevel int, controllers ...Controller)
	// PostRunAt installs one-shot hooks after the controllers of a level.
	PostRunAt(priorityLevel int, controllers ...Controller)
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext starts the next iteration without waiting for the interval.
	TriggerNext()
}

// MessageStore holds the messages of an iteration.
type MessageStore interface {
	// ProcessMessages walks the messages with a processor.
	ProcessMessages(MessageProcessor)

	MessageAppender
}

// MessageAppender appends messages to a store.
type MessageAppender interface {
	// AddMessages appends messages for the controllers still to run.
	AddMessages(msgs ...Message)
}

// MessageProcessor examines one message at a time.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the state of a ProcessMessages walk.
type MessageProcessingContext interface {
	// CurrentMessage gets the message being examined.
	CurrentMessage() Message
	// MessageTaken removes the current message from the store.
	MessageTaken()
	// StopProcessing ends the walk after the current message.
	StopProcessing()

	MessageAppender
}
