package twitch

import (
	"errors"
	"fmt"
)

const (
	platformName string = "twitch"
	helixMethod  string = "helix"
)

var errUnexpectedStatus = errors.New("unexpected status code")

// Error is returned by every failed Twitch call. Module names the request that
// failed, Err holds the cause.
type Error struct {
	Message string
	Module  string
	Err     error
}

func (err *Error) Error() string {
	if err.Module == "" {
		return fmt.Sprintf("[Twitch] %s: %v", err.Message, err.Err)
	}
	return fmt.Sprintf("[Twitch] [%s] %s: %v", err.Module, err.Message, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

func wrapWithTwitchError(err error, module string, message string) error {
	return &Error{
		Message: message,
		Module:  module,
		Err:     err,
	}
}
