//go:build windows

package notify

import (
	"golang.org/x/sys/windows"
)

// dialog shows a modal error message box. Callers fall back to stderr
// when it fails.
type dialog struct{}

func platformNotifier(*Stream) Notifier {
	return dialog{}
}

func (dialog) Notify(title, message string) error {
	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	_, err = windows.MessageBox(0, text, caption, windows.MB_OK|windows.MB_ICONERROR|windows.MB_SETFOREGROUND)
	return err
}
