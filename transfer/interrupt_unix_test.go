//go:build linux || darwin

package transfer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPipe returns a pipe whose read end is a plain blocking descriptor,
// the way os.Stdin looks when a pipe or fifo is redirected into the process.
func blockingPipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	var fds [2]int
	require.NoError(t, syscall.Pipe(fds[:]))
	r := os.NewFile(uintptr(fds[0]), "pipe-r")
	w := os.NewFile(uintptr(fds[1]), "pipe-w")
	t.Cleanup(func() {
		w.Close()
		r.Close()
	})
	return r, w
}

func TestCopyInterruptedOnBlockingPipe(t *testing.T) {
	r, w := blockingPipe(t)
	require.Error(t, r.SetReadDeadline(time.Now()), "descriptor should not support deadlines")

	_, err := w.Write([]byte("hello"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var dst bytes.Buffer
	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := Copy(ctx, &dst, r, Options{BlockSize: 64, Direction: DirectionTransmit})
		done <- outcome{res, err}
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case o := <-done:
		require.NoError(t, o.err)
		assert.True(t, o.res.Interrupted)
		assert.Equal(t, uint64(5), o.res.Bytes)
		assert.Equal(t, "hello", dst.String())
	case <-time.After(2 * time.Second):
		t.Fatal("Copy still blocked on the pipe after cancellation")
	}
}

func TestCopyBlockingPipeToEOF(t *testing.T) {
	r, w := blockingPipe(t)
	payload := randomData(t, 10000)

	go func() {
		w.Write(payload)
		w.Close()
	}()

	var dst bytes.Buffer
	res, err := Copy(context.Background(), &dst, r, Options{BlockSize: 333})
	require.NoError(t, err)
	assert.False(t, res.Interrupted)
	assert.Equal(t, uint64(len(payload)), res.Bytes)
	assert.True(t, bytes.Equal(payload, dst.Bytes()))
}

func TestInterruptibleLeavesRegularFilesAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	src, detach := interruptible(context.Background(), f)
	defer detach()
	assert.Same(t, f, src)

	var dst bytes.Buffer
	res, err := Copy(context.Background(), &dst, f, Options{BlockSize: 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(13), res.Bytes)
	assert.Equal(t, "file contents", dst.String())
}
