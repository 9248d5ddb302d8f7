// Package msgs defines the messages exchanged between a regulator node and
// its supervisors (CLI, monitor), and the Typed envelope carrying them.
//
// A type ID encodes the kind (command or event) in its top bit, the group
// in the following 15 bits and the message in the low 16 bits. Replies
// share the ID of their command with TypeIDMaskReply set.
//
// Producer: regulator node
// Consumer: regcli, regmon
package msgs
