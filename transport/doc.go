// Package transport implements the socket setup used by snc sessions.
//
// It covers the three steps that come before any byte is moved:
//
//   - Resolver turns a host (or the wildcard) and a port or service name into
//     an Endpoint: an ordered list of candidate TCP addresses.
//   - Listen binds the first workable candidate with a bounded accept backlog,
//     and AcceptOne waits for exactly one inbound connection.
//   - Dial connects to the first candidate that accepts the connection.
//
// Blocking calls take a context.Context. Cancelling it makes accept and
// connect return ErrInterrupted instead of an error describing the socket,
// so callers can tell a user-requested stop from a failure:
//
//	ep, err := resolver.Resolve(ctx, "", "1337")
//	if err != nil {
//	    return err // *ResolutionError
//	}
//	ln, err := transport.Listen(ctx, ep, limits.ListenBacklog)
//	if err != nil {
//	    return err // *SetupError with Op "socket", "bind" or "listen"
//	}
//	defer ln.Close()
//
//	conn, err := transport.AcceptOne(ctx, ln)
//	if errors.Is(err, transport.ErrInterrupted) {
//	    return nil
//	}
//
// On Linux the listening socket is created through golang.org/x/sys/unix so
// the backlog passed to Listen is honoured; elsewhere the system default is used.
package transport
