package ipmigo

import (
	"fmt"
)

// An ArgumentError suggests that the arguments are wrong
type ArgumentError struct {
	Value   interface{} // Argument that has a problem
	Message string      // Error message
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s, value `%v`", e.Message, e.Value)
}

// A MessageError suggests that the received message is wrong or is not obtained
type MessageError struct {
	Cause   error  // Cause of the error
	Message string // Error message
	Detail  string // Detail of the error for debugging
}

func (e *MessageError) Error() string {
	if e.Cause == nil {
		return e.Message
	} else {
		return fmt.Sprintf("%s, cause `%v`", e.Message, e.Cause)
	}
}

var ErrNotSupportedIPMI error = &MessageError{Message: "Not Supported IPMI"}

// A FramingError indicates a response does not answer the request it
// claims to: its NetFn is not the expected odd complement of the
// request's NetFn, or its command code does not match. This is a
// transport-level violation, distinct from a CommandError, which
// reports a command that was correctly matched but failed on the BMC.
type FramingError struct {
	RequestNetFn  NetFn
	ResponseNetFn NetFn
	RequestCode   uint8
	ResponseCode  uint8
}

func (e *FramingError) Error() string {
	return fmt.Sprintf(
		"response framing mismatch: request netfn=%d cmd=%#02x, response netfn=%d cmd=%#02x",
		e.RequestNetFn, e.RequestCode, e.ResponseNetFn, e.ResponseCode)
}

// A CommandError suggests that command execution has failed
type CommandError struct {
	CompletionCode CompletionCode
	Command        Command
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("Command %s(%02x) failed - %s", e.Command.Name(), e.Command.Code(), e.CompletionCode)
}
