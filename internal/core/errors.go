package core

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the parent of every precondition failure. Callers use errors.Is.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidFrom     = fmt.Errorf("%w: no valid from address", ErrInvalidInput)
	ErrEmptyBody       = fmt.Errorf("%w: no email body", ErrInvalidInput)
	ErrAutomatedSender = fmt.Errorf("%w: automated sender", ErrInvalidInput)
	ErrMeetingInvite   = fmt.Errorf("%w: email appears to be a meeting invite", ErrInvalidInput)
)
