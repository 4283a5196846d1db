// Package transfer implements the buffered copy engine shared by both snc
// roles.
//
// Copy reads up to one block from a source, writes that chunk to a sink until
// every byte of it is accepted, reports the running total and repeats until
// the source reports end-of-data, an I/O error occurs or the context is
// cancelled:
//
//	res, err := transfer.Copy(ctx, os.Stdout, conn, transfer.Options{
//	    BlockSize: 4096,
//	    Direction: transfer.DirectionReceive,
//	    Progress:  tracker,
//	})
//	if err != nil {
//	    // *transfer.TransferError: the session is over
//	}
//	if res.Interrupted {
//	    // stopped on request; res.Bytes were delivered
//	}
//
// # Partial Writes
//
// A sink may accept fewer bytes than requested, or even none without an error.
// WriteFull retries the unwritten suffix until the chunk is flushed or the sink
// fails, so bytes always reach the sink complete and in read order.
//
// # Cancellation
//
// The context is checked before every read. When the source supports read
// deadlines (sockets, pollable pipes) cancellation also forces the pending
// read to return so the loop stops within one blocking call. Sources without
// deadline support, such as a blocking stdin, are read on a helper goroutine
// that the loop abandons on cancellation. Writes are never
// interrupted: a chunk that has been read is always flushed before the loop
// looks at the context again.
package transfer
