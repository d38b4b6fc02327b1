package ld303

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge indicates the query payload can't be encoded by the length byte.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUnknownCommand indicates a command name or code is not recognized.
	ErrUnknownCommand = errors.New("unknown command")
)

// CommandCodeError reports a command code which can't be parsed.
type CommandCodeError struct {
	Input string
}

// Error implements error.
func (e *CommandCodeError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownCommand, e.Input)
}
