// Package notify shows fatal launcher errors to the user. On Windows that
// is a blocking message box, since the launcher normally has no console;
// elsewhere the message goes to stderr.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsTerminalFunc reports whether a file descriptor is a terminal.
// Tests replace it.
var IsTerminalFunc = term.IsTerminal

// Notifier presents an error message and blocks until it is acknowledged.
type Notifier interface {
	Notify(title, message string) error
}

// Stream writes notifications to a writer. Terminals get a colored title.
type Stream struct {
	W io.Writer
}

// Notify writes the title and message to the stream.
func (s *Stream) Notify(title, message string) error {
	heading := title + ":"
	if isTerminal(s.W) {
		heading = "\x1b[1;31m" + heading + "\x1b[0m"
	}
	message = strings.TrimRight(message, "\n")
	if strings.Contains(message, "\n") {
		_, err := fmt.Fprintf(s.W, "%s\n%s\n", heading, message)
		return err
	}
	_, err := fmt.Fprintf(s.W, "%s %s\n", heading, message)
	return err
}

// New returns the notifier for the current host. Hosts without a dialog
// write to stderr.
func New(stderr io.Writer) Notifier {
	return platformNotifier(&Stream{W: stderr})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminalFunc(int(f.Fd()))
}
