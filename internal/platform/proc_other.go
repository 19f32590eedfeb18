//go:build !windows

package platform

import "syscall"

// HelperProcAttr returns process attributes for short-lived discovery
// helpers. Nothing special is needed outside Windows.
func HelperProcAttr() *syscall.SysProcAttr {
	return nil
}

// DetachedProcAttr returns process attributes for the launched application.
// The child starts its own session so it survives the launcher exiting.
func DetachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
