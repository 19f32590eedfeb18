package main

import "fmt"

// Exit codes.
const (
	// ExitSuccess indicates the app was started, or a subcommand succeeded
	ExitSuccess = 0

	// ExitGeneral indicates any fatal launch error
	ExitGeneral = 1

	// ExitUsage indicates a config subcommand was given an unknown key or bad value
	ExitUsage = 2
)

// exitError carries an exit code for a failure that has already been
// reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
