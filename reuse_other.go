//go:build !unix

package tcpsrv

import "syscall"

// On Windows SO_REUSEADDR allows stealing a port bound by another process so it is not set.
func reuseAddr(network, address string, c syscall.RawConn) error { return nil }
