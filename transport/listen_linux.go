//go:build linux

package transport

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listenTCP creates, binds and listens on a stream socket for addr with an
// explicit backlog. The standard library always uses the system maximum, so
// the socket is built by hand and handed to the runtime poller afterwards.
func listenTCP(addr *net.TCPAddr, backlog int) (*net.TCPListener, error) {
	family, sa, err := sockaddr(addr)
	if err != nil {
		return nil, newSetupError("socket", addr.String(), err)
	}

	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, newSetupError("socket", addr.String(), os.NewSyscallError("socket", err))
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, newSetupError("socket", addr.String(), os.NewSyscallError("setsockopt", err))
	}

	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, newSetupError("bind", addr.String(), os.NewSyscallError("bind", err))
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, newSetupError("listen", addr.String(), os.NewSyscallError("listen", err))
	}

	// FileListener dups the descriptor; the original is closed with f.
	f := os.NewFile(uintptr(fd), "snc-listener")
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, newSetupError("listen", addr.String(), err)
	}
	return ln.(*net.TCPListener), nil
}

// sockaddr converts addr into the unix socket address for its family.
func sockaddr(addr *net.TCPAddr) (int, unix.Sockaddr, error) {
	if addr.IP == nil || addr.IP.To4() != nil {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		if ip4 := addr.IP.To4(); ip4 != nil {
			copy(sa.Addr[:], ip4)
		}
		return unix.AF_INET, sa, nil
	}

	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To16())
	if addr.Zone != "" {
		iface, err := net.InterfaceByName(addr.Zone)
		if err != nil {
			return 0, nil, err
		}
		sa.ZoneId = uint32(iface.Index)
	}
	return unix.AF_INET6, sa, nil
}
