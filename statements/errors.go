package statements

import (
	"errors"
	"fmt"
)

// ErrReservedCommand matches any ReservedCommandError through errors.Is.
var ErrReservedCommand = errors.New("reserved command")

// ReservedCommandError is returned by Parse when a statement starts with a
// transaction-control keyword. Keyword is uppercase, e.g. "BEGIN".
type ReservedCommandError struct {
	Keyword string
}

func (e ReservedCommandError) Error() string {
	return fmt.Sprintf("%s command is not supported in a revision", e.Keyword)
}

func (e ReservedCommandError) Is(target error) bool {
	return target == ErrReservedCommand
}
