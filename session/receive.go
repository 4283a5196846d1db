package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/opd-ai/snc/netinfo"
	"github.com/opd-ai/snc/transfer"
	"github.com/opd-ai/snc/transport"
	"github.com/sirupsen/logrus"
)

// ReceiveSession accepts a single connection and copies it to a sink.
type ReceiveSession struct {
	*base
	printedInterfaces bool
}

// NewReceiveSession validates cfg and returns a receive session.
func NewReceiveSession(cfg Config) (*ReceiveSession, error) {
	b, err := newBase(cfg, transfer.DirectionReceive)
	if err != nil {
		return nil, err
	}
	return &ReceiveSession{base: b}, nil
}

// Open listens on all local addresses at port. When interface printing is
// enabled the reachable addresses are written to the diagnostics writer.
func (s *ReceiveSession) Open(ctx context.Context, port string) (*net.TCPListener, error) {
	ep, err := s.resolver.Resolve(ctx, "", port)
	if err != nil {
		return nil, err
	}

	ln, err := transport.Listen(ctx, ep, s.cfg.Backlog)
	if err != nil {
		return nil, err
	}

	s.printedInterfaces = false
	if s.cfg.PrintInterfaces {
		if err := s.writeInterfaces(port); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "ReceiveSession.Open",
				"error":    err.Error(),
			}).Warn("Failed to list local interfaces")
		}
		s.printedInterfaces = true
	}

	return ln, nil
}

func (s *ReceiveSession) writeInterfaces(port string) error {
	w := s.cfg.Diagnostics
	fmt.Fprintln(w, netinfo.Separator)
	fmt.Fprintf(w, "Listening on port '%s'. Local interfaces:\n", port)
	err := netinfo.WriteInterfaces(w, s.resolver.Network())
	fmt.Fprintln(w, netinfo.Separator)
	return err
}

// AcceptOne waits for the single connection this session serves.
func (s *ReceiveSession) AcceptOne(ctx context.Context, ln *net.TCPListener) (*net.TCPConn, net.Addr, error) {
	conn, err := transport.AcceptOne(ctx, ln)
	if err != nil {
		return nil, nil, err
	}

	peer := conn.RemoteAddr()
	if s.cfg.PrintPeerInfo {
		w := s.cfg.Diagnostics
		if !s.printedInterfaces {
			fmt.Fprintln(w, netinfo.Separator)
		}
		fmt.Fprintf(w, "Incoming connection from: %s\n", netinfo.FormatPeer(peer))
		fmt.Fprintln(w, netinfo.Separator)
	}
	return conn, peer, nil
}

// Serve accepts one connection on ln and copies it into dst. ln is closed
// once the accept returns and the connection before Serve returns.
func (s *ReceiveSession) Serve(ctx context.Context, ln *net.TCPListener, dst io.Writer) (Result, error) {
	var res Result
	conn, peer, err := s.AcceptOne(ctx, ln)

	// No further connections are served.
	if cerr := ln.Close(); cerr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "ReceiveSession.Serve",
			"error":    cerr.Error(),
		}).Debug("Failed to close listener")
	}

	if err != nil {
		if errors.Is(err, transport.ErrInterrupted) {
			res.Interrupted = true
			s.finish(res)
			return res, nil
		}
		return res, err
	}
	defer conn.Close()
	res.Peer = peer.String()

	copied, err := transfer.Copy(ctx, dst, conn, s.copyOptions())
	res.Bytes, res.Chunks, res.Interrupted = copied.Bytes, copied.Chunks, copied.Interrupted
	if err != nil {
		return res, err
	}

	logrus.WithFields(logrus.Fields{
		"function":    "ReceiveSession.Serve",
		"peer":        res.Peer,
		"bytes":       res.Bytes,
		"interrupted": res.Interrupted,
	}).Info("Receive session finished")

	s.finish(res)
	return res, nil
}

// Run listens on port and serves exactly one connection into dst.
func (s *ReceiveSession) Run(ctx context.Context, port string, dst io.Writer) (Result, error) {
	ln, err := s.Open(ctx, port)
	if err != nil {
		if errors.Is(err, transport.ErrInterrupted) {
			res := Result{Interrupted: true}
			s.finish(res)
			return res, nil
		}
		return Result{}, err
	}
	return s.Serve(ctx, ln, dst)
}
