//go:build windows

package nbtscan

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func socketControl(reuseAddr bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
			if sockErr == nil && reuseAddr {
				sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
			}
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}
