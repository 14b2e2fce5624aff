//go:build !linux

package supervisor

import "syscall"

// workerProcAttr returns nil where the kernel has no parent-death signal.
// Workers there rely on WithParent instead.
func workerProcAttr() *syscall.SysProcAttr {
	return nil
}
