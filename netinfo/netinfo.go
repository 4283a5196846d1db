// Package netinfo formats local network information for the receiver's
// diagnostics: the list of addresses a transmitter could reach it on, and the
// address of the peer that connected.
package netinfo

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Separator frames blocks of diagnostics on stderr.
const Separator = "---------------------------"

// InterfaceAddr is one address of a local network interface.
type InterfaceAddr struct {
	Name string
	IP   net.IP
}

func (a InterfaceAddr) String() string {
	return fmt.Sprintf("%s: %s", a.Name, a.IP)
}

// ifaceAddrs is the part of a net.Interface the filter looks at.
type ifaceAddrs struct {
	name  string
	flags net.Flags
	addrs []net.Addr
}

// LocalAddresses returns the addresses of every interface that is up and not
// a loopback, restricted to the families allowed by network ("tcp", "tcp4"
// or "tcp6").
func LocalAddresses(network string) ([]InterfaceAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	var all []ifaceAddrs
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":  "LocalAddresses",
				"interface": iface.Name,
				"error":     err.Error(),
			}).Debug("Skipping interface without readable addresses")
			continue
		}
		all = append(all, ifaceAddrs{name: iface.Name, flags: iface.Flags, addrs: addrs})
	}

	return filterAddresses(all, network), nil
}

// filterAddresses keeps usable addresses of up, non-loopback interfaces.
func filterAddresses(ifaces []ifaceAddrs, network string) []InterfaceAddr {
	var out []InterfaceAddr
	for _, iface := range ifaces {
		if iface.flags&net.FlagUp == 0 || iface.flags&net.FlagLoopback != 0 {
			continue
		}
		for _, addr := range iface.addrs {
			var ip net.IP
			switch a := addr.(type) {
			case *net.IPNet:
				ip = a.IP
			case *net.IPAddr:
				ip = a.IP
			default:
				continue
			}
			if !familyAllowed(ip, network) {
				continue
			}
			out = append(out, InterfaceAddr{Name: iface.name, IP: ip})
		}
	}
	return out
}

func familyAllowed(ip net.IP, network string) bool {
	switch network {
	case "tcp4":
		return ip.To4() != nil
	case "tcp6":
		return ip.To4() == nil
	default:
		return true
	}
}

// WriteInterfaces writes one "name: address" line per local address.
func WriteInterfaces(w io.Writer, network string) error {
	addrs, err := LocalAddresses(network)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		if _, err := fmt.Fprintln(w, a.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatPeer renders a peer address as "<ip>, <port>" for both IPv4 and
// IPv6 peers.
func FormatPeer(addr net.Addr) string {
	if addr == nil {
		return "unknown"
	}

	if tcp, ok := addr.(*net.TCPAddr); ok {
		ip := tcp.IP.String()
		if tcp.Zone != "" {
			ip += "%" + tcp.Zone
		}
		return ip + ", " + strconv.Itoa(tcp.Port)
	}

	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host + ", " + port
}
