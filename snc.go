package snc

import (
	"context"
	"io"
	"os"

	"github.com/opd-ai/snc/limits"
	"github.com/opd-ai/snc/session"
	"github.com/sirupsen/logrus"
)

// Options contains the settings for a transfer.
type Options struct {
	// BlockSize is the size of the transfer buffer in bytes.
	BlockSize int
	// PrintInterfaces lists local addresses once the receiver is listening.
	PrintInterfaces bool
	// PrintPeerInfo prints the address of the connecting transmitter.
	PrintPeerInfo bool
	// PrintProgress shows a running byte count.
	PrintProgress bool
	// Network is "tcp" (IPv4 and IPv6), "tcp4" or "tcp6".
	Network string
	// Diagnostics receives status and progress lines.
	Diagnostics io.Writer
}

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		BlockSize:   limits.DefaultBlockSize,
		Network:     "tcp",
		Diagnostics: os.Stderr,
	}
}

// Stats summarizes a finished transfer.
type Stats struct {
	Bytes       uint64
	Chunks      int
	Peer        string
	Interrupted bool
}

func (o *Options) config() session.Config {
	if o == nil {
		o = NewOptions()
	}
	cfg := session.DefaultConfig()
	cfg.BlockSize = o.BlockSize
	cfg.PrintInterfaces = o.PrintInterfaces
	cfg.PrintPeerInfo = o.PrintPeerInfo
	cfg.PrintProgress = o.PrintProgress
	if o.Network != "" {
		cfg.Network = o.Network
	}
	if o.Diagnostics != nil {
		cfg.Diagnostics = o.Diagnostics
	}
	return cfg
}

func statsFrom(res session.Result) *Stats {
	return &Stats{
		Bytes:       res.Bytes,
		Chunks:      res.Chunks,
		Peer:        res.Peer,
		Interrupted: res.Interrupted,
	}
}

// Receive listens on port, accepts one connection and writes everything it
// sends to dst. A nil opts uses NewOptions.
func Receive(ctx context.Context, port string, dst io.Writer, opts *Options) (*Stats, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Receive",
		"port":     port,
	}).Debug("Starting receive")

	rs, err := session.NewReceiveSession(opts.config())
	if err != nil {
		return nil, err
	}
	res, err := rs.Run(ctx, port, dst)
	return statsFrom(res), err
}

// Transmit connects to destination:port and sends src until it is
// exhausted. A nil opts uses NewOptions.
func Transmit(ctx context.Context, src io.Reader, destination, port string, opts *Options) (*Stats, error) {
	logrus.WithFields(logrus.Fields{
		"function":    "Transmit",
		"destination": destination,
		"port":        port,
	}).Debug("Starting transmit")

	ts, err := session.NewTransmitSession(opts.config())
	if err != nil {
		return nil, err
	}
	res, err := ts.Run(ctx, src, destination, port)
	return statsFrom(res), err
}
