// Package netutil opens the TCP listener shared by all worker processes.
package netutil

import (
	"context"
	"fmt"
	"net"
)

// Listen opens a TCP listener on addr. With reusePort set, the socket is
// bound with SO_REUSEPORT where the platform supports it, so several
// worker processes can accept on the same port and the kernel spreads
// connections across them.
func Listen(ctx context.Context, addr string, reusePort bool) (net.Listener, error) {
	lc := net.ListenConfig{}
	if reusePort {
		lc.Control = reusePortControl
	}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
