package transfer

import (
	"errors"
	"fmt"
)

var (
	// errInvalidWrite means a sink returned an impossible count from Write
	errInvalidWrite = errors.New("invalid write result")

	// errInvalidRead means a source returned an impossible count from Read
	errInvalidRead = errors.New("invalid read result")
)

// TransferError reports a read or write failure that aborted a copy. Bytes
// is the number of bytes fully delivered to the sink before the failure.
type TransferError struct {
	Op    string // read or write
	Bytes uint64
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s error after %d bytes: %v", e.Op, e.Bytes, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
