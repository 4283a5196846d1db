// Package snc implements a simple netcat: it moves a raw byte stream over a
// single TCP connection between a receiver and a transmitter.
//
// The receiver listens on a port on every local address, accepts exactly one
// connection and writes everything it receives to an output sink (stdout for
// the command line tool). The transmitter connects to a destination and sends
// an input source (stdin) until it is exhausted. Bytes are delivered
// unmodified and in order; there is no framing and no encryption.
//
// # Getting Started
//
// Receive one transfer into a file:
//
//	opts := snc.NewOptions()
//	opts.PrintProgress = true
//
//	f, err := os.Create("backup.tar")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	stats, err := snc.Receive(ctx, "1337", f, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("received %d bytes from %s\n", stats.Bytes, stats.Peer)
//
// Send a file to that receiver:
//
//	stats, err := snc.Transmit(ctx, f, "backup-host", "1337", opts)
//
// # Cancellation
//
// Both calls block until the transfer ends. Cancelling ctx interrupts a
// pending accept, connect or socket read; whatever chunk is already in
// flight is written out first. An interrupted call returns Stats with
// Interrupted set and a nil error.
//
// # Errors
//
// Failures are returned as typed errors that can be inspected with
// errors.As:
//
//   - [transport.ResolutionError]: the host or port could not be resolved
//   - [transport.SetupError]: socket, bind, listen, accept or connect failed
//   - [transfer.TransferError]: a read or write failed mid-transfer
//
// The underlying system errors (for example syscall.EADDRINUSE or
// syscall.ECONNREFUSED) remain reachable through errors.Is.
//
// # Subpackages
//
//   - transport: address resolution, listeners and connections
//   - transfer: the copy loop and partial-write handling
//   - progress: throttled progress reporting
//   - session: receive and transmit sessions
//   - netinfo: local interface listing and peer formatting
//   - limits: shared defaults and bounds
package snc
