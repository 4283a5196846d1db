package session

import (
	"errors"
	"io"
	"os"

	"github.com/opd-ai/snc/limits"
	"github.com/opd-ai/snc/progress"
	"github.com/opd-ai/snc/transfer"
	"github.com/opd-ai/snc/transport"
)

// ErrMissingDestination is returned when a transmit session has no host.
var ErrMissingDestination = errors.New("missing destination host")

// Config holds the settings shared by both session kinds.
type Config struct {
	BlockSize       int
	Network         string // tcp, tcp4 or tcp6
	Backlog         int
	PrintInterfaces bool // receive only
	PrintPeerInfo   bool // receive only
	PrintProgress   bool

	// Diagnostics receives human readable status lines. Defaults to stderr.
	Diagnostics io.Writer

	// Lookup overrides the system resolver.
	Lookup transport.Lookup
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		BlockSize:   limits.DefaultBlockSize,
		Network:     "tcp",
		Backlog:     limits.ListenBacklog,
		Diagnostics: os.Stderr,
	}
}

// Validate checks the settings before any socket is created.
func (c Config) Validate() error {
	if err := limits.ValidateBlockSize(c.BlockSize); err != nil {
		return err
	}
	if c.Backlog < 0 {
		return errors.New("listen backlog must not be negative")
	}
	return nil
}

// Result is the outcome of a session.
type Result struct {
	Bytes       uint64
	Chunks      int
	Interrupted bool
	Peer        string // remote address, empty if no connection was made
}

// base is the state common to both sessions.
type base struct {
	cfg       Config
	direction transfer.Direction
	resolver  *transport.Resolver
	tracker   *progress.Tracker
}

func newBase(cfg Config, dir transfer.Direction) (*base, error) {
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = os.Stderr
	}
	if cfg.Backlog == 0 {
		cfg.Backlog = limits.ListenBacklog
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolver, err := transport.NewResolver(cfg.Network, cfg.Lookup)
	if err != nil {
		return nil, err
	}

	b := &base{cfg: cfg, direction: dir, resolver: resolver}
	if cfg.PrintProgress {
		b.tracker = progress.New(cfg.Diagnostics)
	}
	return b, nil
}

// copyOptions builds the transfer options, resetting progress for a new run.
func (b *base) copyOptions() transfer.Options {
	opts := transfer.Options{BlockSize: b.cfg.BlockSize, Direction: b.direction}
	if b.tracker != nil {
		b.tracker.Reset()
		opts.Progress = b.tracker
	}
	return opts
}

// finish renders the final progress line.
func (b *base) finish(res Result) {
	if b.tracker != nil {
		b.tracker.ReportFinal(b.direction.Verb(), res.Bytes)
	}
}
