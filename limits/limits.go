// Package limits provides centralized sizing limits for snc.
// This ensures consistent validation across different components of the system.
package limits

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultBlockSize is the transfer buffer capacity used when none is configured.
	DefaultBlockSize = 0x1000

	// MaxBlockSize is the largest accepted transfer buffer (64 MiB).
	MaxBlockSize = 64 * 1024 * 1024

	// ListenBacklog is the maximum number of pending connections queued on the
	// receiver's listening socket. See the second parameter of listen(2).
	ListenBacklog = 10

	// DefaultPort is the port used by both roles when none is given.
	DefaultPort = "1337"

	// DefaultProgressStep is the growth factor over the last displayed byte
	// count required before a partial progress line is rendered again.
	DefaultProgressStep = 1.25
)

var (
	// ErrInvalidBlockSize indicates a block size that is zero, negative or too large
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrInvalidProgressStep indicates a progress step that would never throttle
	ErrInvalidProgressStep = errors.New("invalid progress step")
)

// ValidateBlockSize checks that size can be used as a transfer buffer capacity.
// Returns an error wrapping ErrInvalidBlockSize with the offending value.
func ValidateBlockSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d is not a positive byte count", ErrInvalidBlockSize, size)
	}
	if size > MaxBlockSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrInvalidBlockSize, size, MaxBlockSize)
	}
	return nil
}

// ValidateProgressStep checks that step is a finite factor strictly greater than one.
func ValidateProgressStep(step float64) error {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 1 {
		return fmt.Errorf("%w: %v must be a finite factor greater than 1", ErrInvalidProgressStep, step)
	}
	return nil
}
