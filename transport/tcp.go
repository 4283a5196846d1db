package transport

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// aLongTimeAgo is a deadline in the past. Setting it on a socket makes any
// blocked call on that socket return immediately.
var aLongTimeAgo = time.Unix(1, 0)

// Listen binds the first workable candidate of ep and marks it passive with
// the given accept backlog. Candidates are tried in order; when all fail the
// error of the last attempt is returned as a *SetupError.
func Listen(ctx context.Context, ep *Endpoint, backlog int) (*net.TCPListener, error) {
	if len(ep.Candidates) == 0 {
		return nil, newSetupError("listen", ep.String(), ErrNoCandidates)
	}

	var lastErr error
	for _, addr := range ep.Candidates {
		if ctx.Err() != nil {
			return nil, ErrInterrupted
		}

		logrus.WithFields(logrus.Fields{
			"function": "Listen",
			"address":  addr.String(),
			"backlog":  backlog,
		}).Debug("Creating TCP listener")

		ln, err := listenTCP(addr, backlog)
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"function":   "Listen",
				"local_addr": ln.Addr().String(),
			}).Info("TCP listener created successfully")
			return ln, nil
		}

		logrus.WithFields(logrus.Fields{
			"function": "Listen",
			"address":  addr.String(),
			"error":    err.Error(),
		}).Debug("Candidate could not be bound")
		lastErr = err
	}

	return nil, lastErr
}

// AcceptOne blocks until one inbound connection arrives on ln. Cancelling
// ctx unblocks the call, which then returns ErrInterrupted. The listener is
// not closed; the caller owns it.
func AcceptOne(ctx context.Context, ln *net.TCPListener) (*net.TCPConn, error) {
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}

	stop := context.AfterFunc(ctx, func() {
		_ = ln.SetDeadline(aLongTimeAgo)
	})
	defer stop()

	conn, err := ln.AcceptTCP()
	if err != nil {
		if ctx.Err() != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "AcceptOne",
				"local_addr": ln.Addr().String(),
			}).Info("Accept interrupted")
			return nil, ErrInterrupted
		}
		return nil, newSetupError("accept", ln.Addr().String(), err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "AcceptOne",
		"local_addr":  conn.LocalAddr().String(),
		"remote_addr": conn.RemoteAddr().String(),
	}).Info("Accepted connection")

	return conn, nil
}

// Dial connects to the first candidate of ep that accepts the connection.
// Cancelling ctx aborts an in-progress connect and returns ErrInterrupted.
// When every candidate fails the last error is returned as a *SetupError.
func Dial(ctx context.Context, ep *Endpoint) (*net.TCPConn, error) {
	if len(ep.Candidates) == 0 {
		return nil, newSetupError("connect", ep.String(), ErrNoCandidates)
	}

	var dialer net.Dialer
	var lastErr error
	for _, addr := range ep.Candidates {
		if ctx.Err() != nil {
			return nil, ErrInterrupted
		}

		logrus.WithFields(logrus.Fields{
			"function": "Dial",
			"address":  addr.String(),
		}).Debug("Dialing TCP connection")

		conn, err := dialer.DialContext(ctx, CandidateNetwork(addr), addr.String())
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"function":    "Dial",
				"local_addr":  conn.LocalAddr().String(),
				"remote_addr": conn.RemoteAddr().String(),
			}).Info("TCP connection established")
			return conn.(*net.TCPConn), nil
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil, ErrInterrupted
		}

		logrus.WithFields(logrus.Fields{
			"function": "Dial",
			"address":  addr.String(),
			"error":    err.Error(),
		}).Debug("Candidate refused the connection")
		lastErr = err
	}

	return nil, newSetupError("connect", ep.String(), lastErr)
}
