//go:build linux

package supervisor

import "syscall"

// workerProcAttr asks the kernel to send SIGTERM to the worker when the
// supervisor dies, including by SIGKILL.
func workerProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}
}
