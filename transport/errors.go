package transport

import (
	"errors"
	"fmt"
	"net"
)

// Common errors for snc transport setup
var (
	// ErrInterrupted indicates a blocking call returned because the session was cancelled
	ErrInterrupted = errors.New("interrupted")

	// ErrNoCandidates indicates resolution succeeded but produced nothing usable
	ErrNoCandidates = errors.New("no suitable address")

	// ErrEmptyService indicates no port or service name was given
	ErrEmptyService = errors.New("empty port or service name")

	// ErrUnsupportedNetwork indicates a network other than tcp, tcp4 or tcp6
	ErrUnsupportedNetwork = errors.New("unsupported network")
)

// ResolutionError reports a host/service pair that could not be turned into
// candidate endpoints. Err carries the resolver's diagnostic.
type ResolutionError struct {
	Host    string // host as given, empty for the wildcard
	Service string // port number or service name as given
	Err     error  // underlying resolver error
}

func (e *ResolutionError) Error() string {
	host := e.Host
	if host == "" {
		host = "*"
	}
	return fmt.Sprintf("resolve %s: %v", net.JoinHostPort(host, e.Service), e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// SetupError reports a failure while creating, binding, listening on,
// accepting from or connecting a socket.
type SetupError struct {
	Op   string // socket, bind, listen, accept or connect
	Addr string // address if relevant
	Err  error  // underlying OS error
}

func (e *SetupError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// newSetupError creates a new SetupError
func newSetupError(op, addr string, err error) *SetupError {
	return &SetupError{
		Op:   op,
		Addr: addr,
		Err:  err,
	}
}
