package transfer

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/opd-ai/snc/limits"
	"github.com/sirupsen/logrus"
)

// Direction indicates which way a copy moves bytes relative to the socket.
type Direction uint8

const (
	// DirectionReceive copies from a socket to the output sink.
	DirectionReceive Direction = iota
	// DirectionTransmit copies from the input source to a socket.
	DirectionTransmit
)

// Verb returns the word used in progress lines for this direction.
func (d Direction) Verb() string {
	if d == DirectionTransmit {
		return "Transmitted"
	}
	return "Received"
}

func (d Direction) String() string {
	if d == DirectionTransmit {
		return "transmit"
	}
	return "receive"
}

// maxConsecutiveEmptyReads bounds how many (0, nil) reads are tolerated
// before the source is considered broken.
const maxConsecutiveEmptyReads = 100

// Reporter receives the running total after every flushed chunk.
type Reporter interface {
	ReportPartial(verb string, total uint64) bool
}

// Options configures a copy.
type Options struct {
	// BlockSize is the capacity of the transfer buffer; it must be positive.
	BlockSize int
	// Direction selects the progress verb and the log fields.
	Direction Direction
	// Progress is optional.
	Progress Reporter
}

// Result describes a finished copy.
type Result struct {
	Bytes       uint64 // bytes fully written to the sink
	Chunks      int    // non-empty reads flushed
	Interrupted bool   // stopped because the context was cancelled
}

// Copy moves bytes from src to dst one block at a time until src reports
// io.EOF, an I/O error occurs or ctx is cancelled. Cancellation is not an
// error: the result has Interrupted set. Read and write failures are
// returned as *TransferError and are never retried.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, opts Options) (Result, error) {
	var res Result
	if err := limits.ValidateBlockSize(opts.BlockSize); err != nil {
		return res, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Copy",
		"direction":  opts.Direction.String(),
		"block_size": opts.BlockSize,
	}).Debug("Starting transfer")

	buf := make([]byte, opts.BlockSize)
	src, detach := interruptible(ctx, src)
	defer detach()

	empty := 0
	for {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}

		n, rerr := src.Read(buf)
		if n < 0 || n > len(buf) {
			return res, fail(opts, &TransferError{Op: "read", Bytes: res.Bytes, Err: errInvalidRead})
		}

		// Bytes that came with an error (io.EOF included) are flushed first.
		if n > 0 {
			empty = 0
			written, err := WriteFull(dst, buf[:n])
			if err != nil {
				res.Bytes += uint64(written)
				return res, fail(opts, &TransferError{Op: "write", Bytes: res.Bytes, Err: err})
			}
			res.Bytes += uint64(n)
			res.Chunks++
			if opts.Progress != nil {
				opts.Progress.ReportPartial(opts.Direction.Verb(), res.Bytes)
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			if ctx.Err() != nil && errors.Is(rerr, os.ErrDeadlineExceeded) {
				res.Interrupted = true
				break
			}
			return res, fail(opts, &TransferError{Op: "read", Bytes: res.Bytes, Err: rerr})
		}

		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return res, fail(opts, &TransferError{Op: "read", Bytes: res.Bytes, Err: io.ErrNoProgress})
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Copy",
		"direction":   opts.Direction.String(),
		"bytes":       res.Bytes,
		"chunks":      res.Chunks,
		"interrupted": res.Interrupted,
	}).Debug("Transfer finished")

	return res, nil
}

// fail logs a transfer abort and returns err unchanged.
func fail(opts Options, err *TransferError) error {
	logrus.WithFields(logrus.Fields{
		"function":  "Copy",
		"direction": opts.Direction.String(),
		"operation": err.Op,
		"bytes":     err.Bytes,
		"error":     err.Err.Error(),
	}).Debug("Transfer aborted")
	return err
}
