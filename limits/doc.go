// Package limits provides the centralized sizing constants and validation
// functions used by snc. Every component that allocates a transfer buffer,
// opens a listening socket or throttles progress output takes its defaults from
// here so the CLI, the facade and the sessions agree on them.
//
// # Block Size
//
// The block size is the capacity of the buffer reused by the transfer loop for
// every read/write pair:
//
//   - DefaultBlockSize (4096 bytes): used when the user does not override it.
//
//   - MaxBlockSize (64 MiB): the upper bound. Larger values are almost always a
//     typo and would allocate a buffer that can never be filled by one read.
//
// Validate a user supplied value before any session starts:
//
//	if err := limits.ValidateBlockSize(size); err != nil {
//	    // errors.Is(err, limits.ErrInvalidBlockSize)
//	}
//
// # Sockets
//
// ListenBacklog (10) bounds the queue of pending connections on the receiver's
// listening socket. Only one of them is ever accepted.
//
// # Progress
//
// DefaultProgressStep (1.25) is the multiplicative growth the byte counter must
// show over the last displayed value before a partial progress line is printed
// again.
package limits
