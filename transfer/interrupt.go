package transfer

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// aLongTimeAgo is a read deadline in the past; it unblocks a pending read.
var aLongTimeAgo = time.Unix(1, 0)

// readDeadliner is implemented by net.Conn and *os.File.
type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// interruptible returns a reader for src whose blocked Read returns as soon
// as ctx is cancelled, and a function that detaches it once the copy ends.
//
// Sockets and pollable descriptors get a read deadline pushed into the past.
// Sources that reject deadlines (a blocking pipe or terminal on stdin) are
// read on a helper goroutine instead; a read abandoned that way may still
// consume input after cancellation, which is then discarded.
func interruptible(ctx context.Context, src io.Reader) (io.Reader, func()) {
	d, ok := src.(readDeadliner)
	if !ok {
		return src, func() {}
	}

	if err := d.SetReadDeadline(time.Time{}); err == nil {
		stop := context.AfterFunc(ctx, func() {
			_ = d.SetReadDeadline(aLongTimeAgo)
		})
		return src, func() { stop() }
	} else if f, isFile := src.(*os.File); isFile {
		// Regular files never block indefinitely.
		if fi, serr := f.Stat(); serr == nil && fi.Mode().IsRegular() {
			return src, func() {}
		}
		logrus.WithFields(logrus.Fields{
			"function": "interruptible",
			"source":   f.Name(),
			"error":    err.Error(),
		}).Debug("Source has no read deadlines, reading on a helper goroutine")
	}

	return &detachedReader{ctx: ctx, src: src}, func() {}
}

type readResult struct {
	n   int
	err error
}

// detachedReader performs each Read of src on its own goroutine so the
// caller can give up on it when ctx is done. At most one read is in flight.
type detachedReader struct {
	ctx     context.Context
	src     io.Reader
	buf     []byte
	pending chan readResult
}

func (r *detachedReader) Read(p []byte) (int, error) {
	if r.pending == nil {
		if cap(r.buf) < len(p) {
			r.buf = make([]byte, len(p))
		}
		buf := r.buf[:len(p)]
		done := make(chan readResult, 1)
		go func() {
			n, err := r.src.Read(buf)
			done <- readResult{n, err}
		}()
		r.pending = done
	}

	select {
	case res := <-r.pending:
		r.pending = nil
		if res.n < 0 || res.n > len(p) {
			return res.n, res.err
		}
		return copy(p, r.buf[:res.n]), res.err
	case <-r.ctx.Done():
		return 0, os.ErrDeadlineExceeded
	}
}
