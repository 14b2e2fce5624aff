//go:build !unix

package netutil

import "syscall"

// ReusePortSupported reports whether Listen can share a port across
// processes on this platform.
const ReusePortSupported = false

func reusePortControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
