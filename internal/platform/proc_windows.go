//go:build windows

package platform

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// HelperProcAttr returns process attributes for short-lived discovery
// helpers (where.exe, npm). They must not flash a console window.
func HelperProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

// DetachedProcAttr returns process attributes for the launched application.
// The child gets no console window and its own process group so it
// outlives the launcher. The main window is left to the child to show.
func DetachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NO_WINDOW | windows.CREATE_NEW_PROCESS_GROUP,
	}
}
