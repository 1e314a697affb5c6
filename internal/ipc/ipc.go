// Package ipc provides the local socket that the cliptoo watch daemon
// listens on and that query sub-commands (status, recent) dial.
//
// Unix-likes use a Unix domain socket; Windows uses a named pipe via
// go-winio. The socket carries the newline-delimited JSON protocol from
// internal/message.
package ipc

import (
	"net"
	"os"
)

// SocketPath returns the platform-appropriate path for the IPC socket.
// Override with $CLIPTOO_SOCKET.
func SocketPath() string {
	if s := os.Getenv("CLIPTOO_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// IsRunning reports whether a cliptoo daemon appears to be listening on the
// IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := Dial()
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a net.Listener on the IPC socket, removing any stale
// socket file from a previous (crashed) run first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	_ = os.Remove(path)
	return listenIPC(path)
}

// Dial connects to the daemon's IPC socket.
func Dial() (net.Conn, error) {
	return dialIPC(SocketPath())
}
