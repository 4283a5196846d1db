package session

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/opd-ai/snc/transfer"
	"github.com/opd-ai/snc/transport"
	"github.com/sirupsen/logrus"
)

// TransmitSession connects to a destination and copies a source into it.
type TransmitSession struct {
	*base
}

// NewTransmitSession validates cfg and returns a transmit session.
func NewTransmitSession(cfg Config) (*TransmitSession, error) {
	b, err := newBase(cfg, transfer.DirectionTransmit)
	if err != nil {
		return nil, err
	}
	return &TransmitSession{base: b}, nil
}

// Open resolves host and port and connects to the first candidate that
// accepts.
func (s *TransmitSession) Open(ctx context.Context, host, port string) (*net.TCPConn, error) {
	if host == "" {
		return nil, ErrMissingDestination
	}

	ep, err := s.resolver.Resolve(ctx, host, port)
	if err != nil {
		return nil, err
	}
	return transport.Dial(ctx, ep)
}

// Run connects to host:port and copies src into the connection until src is
// exhausted. The connection is closed before Run returns.
func (s *TransmitSession) Run(ctx context.Context, src io.Reader, host, port string) (Result, error) {
	var res Result

	conn, err := s.Open(ctx, host, port)
	if err != nil {
		if errors.Is(err, transport.ErrInterrupted) {
			res.Interrupted = true
			s.finish(res)
			return res, nil
		}
		return res, err
	}
	defer conn.Close()
	res.Peer = conn.RemoteAddr().String()

	copied, err := transfer.Copy(ctx, conn, src, s.copyOptions())
	res.Bytes, res.Chunks, res.Interrupted = copied.Bytes, copied.Chunks, copied.Interrupted
	if err != nil {
		return res, err
	}

	logrus.WithFields(logrus.Fields{
		"function":    "TransmitSession.Run",
		"peer":        res.Peer,
		"bytes":       res.Bytes,
		"interrupted": res.Interrupted,
	}).Info("Transmit session finished")

	s.finish(res)
	return res, nil
}
