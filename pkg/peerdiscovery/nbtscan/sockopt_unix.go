//go:build !windows

package nbtscan

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// socketControl enables broadcast so directed broadcast addresses inside a
// CIDR block can be queried, and address reuse when binding the fixed port.
func socketControl(reuseAddr bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
			if sockErr == nil && reuseAddr {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}
