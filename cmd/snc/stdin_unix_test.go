//go:build linux || darwin

package main

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
	"golang.org/x/sys/unix"
)

func blockingPipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	var fds [2]int
	require.NoError(t, syscall.Pipe(fds[:]))
	r := os.NewFile(uintptr(fds[0]), "stdin")
	w := os.NewFile(uintptr(fds[1]), "pipe-w")
	t.Cleanup(func() {
		w.Close()
		r.Close()
	})
	return r, w
}

func isNonblocking(t *testing.T, f *os.File) bool {
	t.Helper()
	flags, err := unix.FcntlInt(f.Fd(), unix.F_GETFL, 0)
	require.NoError(t, err)
	return flags&unix.O_NONBLOCK != 0
}

func TestPollableFileSupportsDeadlines(t *testing.T) {
	r, _ := blockingPipe(t)
	require.Error(t, r.SetReadDeadline(time.Now()))

	pf, restore := pollableFile(r)
	require.NoError(t, pf.SetReadDeadline(aMomentAgo()))

	_, err := pf.Read(make([]byte, 8))
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded), "got %v", err)

	assert.True(t, isNonblocking(t, r), "descriptions are shared with the duplicate")

	restore()
	assert.False(t, isNonblocking(t, r), "blocking mode not restored")
	assert.ErrorIs(t, pf.Close(), os.ErrClosed)
}

func aMomentAgo() time.Time {
	return time.Now().Add(-time.Second)
}

func TestRunTransmitInterruptedWhileStdinBlocks(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp4")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err == nil {
			io.Copy(io.Discard, c)
			c.Close()
		}
	}()

	stdin, w := blockingPipe(t)
	_, err = w.Write([]byte("some input"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &CLIConfig{
		destination: "127.0.0.1",
		port:        strconv.Itoa(ln.Addr().(*net.TCPAddr).Port),
		blockSize:   64,
		ipv4Only:    true,
		logLevel:    "warn",
	}
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, cfg, stdin, io.Discard, io.Discard)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("transmit still blocked on stdin after cancellation")
	}
	assert.False(t, isNonblocking(t, stdin), "stdin left in non-blocking mode")
}
