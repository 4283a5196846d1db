package transfer

import "io"

// WriteFull writes all of p to w. A write that accepts only part of p is
// retried with the remaining suffix, and a write reporting zero bytes without
// an error is treated as a transient no-op and retried as well. It returns the
// number of bytes accepted and the first write error.
//
// The retry is unbounded: a sink that keeps returning (0, nil) makes WriteFull
// spin forever. Callers must only pass writers that eventually accept data or
// fail.
func WriteFull(w io.Writer, p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.Write(p[written:])
		if n < 0 || n > len(p)-written {
			return written, errInvalidWrite
		}
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
