//go:build !linux

package transport

import (
	"context"
	"net"
)

// listenTCP binds addr through the standard library. The backlog cannot be
// chosen here; the operating system default applies.
func listenTCP(addr *net.TCPAddr, _ int) (*net.TCPListener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), CandidateNetwork(addr), addr.String())
	if err != nil {
		return nil, newSetupError("listen", addr.String(), err)
	}
	return ln.(*net.TCPListener), nil
}
