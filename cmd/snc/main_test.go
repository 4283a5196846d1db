package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/snc/limits"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func TestParseCLIFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    CLIConfig
		wantErr bool
	}{
		{
			name: "defaults",
			args: nil,
			want: CLIConfig{port: limits.DefaultPort, blockSize: limits.DefaultBlockSize, logLevel: "warn"},
		},
		{
			name: "short receive",
			args: []string{"-r", "-p", "9000"},
			want: CLIConfig{receive: true, port: "9000", blockSize: limits.DefaultBlockSize, logLevel: "warn"},
		},
		{
			name: "long transmit",
			args: []string{"-transmit", "host.lan", "-port", "ssh", "-block-size", "65536", "-6"},
			want: CLIConfig{destination: "host.lan", port: "ssh", blockSize: 65536, ipv6Only: true, logLevel: "warn"},
		},
		{
			name: "diagnostics",
			args: []string{"-r", "-print-interfaces", "-print-peer-info", "-print-progress", "-log-level", "debug"},
			want: CLIConfig{
				receive: true, port: limits.DefaultPort, blockSize: limits.DefaultBlockSize,
				printInterfaces: true, printPeerInfo: true, printProgress: true, logLevel: "debug",
			},
		},
		{
			name:    "unknown flag",
			args:    []string{"-x"},
			wantErr: true,
		},
		{
			name:    "stray argument",
			args:    []string{"-r", "extra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCLIFlags(tt.args, io.Discard)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseCLIFlagsHelp(t *testing.T) {
	_, err := parseCLIFlags([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))

	config, err := parseCLIFlags([]string{"-help"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, config.help)
}

func TestValidateCLIConfig(t *testing.T) {
	valid := func() *CLIConfig {
		return &CLIConfig{receive: true, port: "1337", blockSize: 4096, logLevel: "warn"}
	}

	tests := []struct {
		name        string
		mutate      func(c *CLIConfig)
		errContains string
	}{
		{"valid receive", func(c *CLIConfig) {}, ""},
		{"valid transmit", func(c *CLIConfig) { c.receive = false; c.destination = "10.0.0.1" }, ""},
		{"no mode", func(c *CLIConfig) { c.receive = false }, "exactly one of -r or -t"},
		{"both modes", func(c *CLIConfig) { c.destination = "10.0.0.1" }, "exactly one of -r or -t"},
		{"both families", func(c *CLIConfig) { c.ipv4Only = true; c.ipv6Only = true }, "cannot be combined"},
		{"empty port", func(c *CLIConfig) { c.port = "" }, "port cannot be empty"},
		{"zero block size", func(c *CLIConfig) { c.blockSize = 0 }, "block size 0"},
		{"huge block size", func(c *CLIConfig) { c.blockSize = limits.MaxBlockSize + 1 }, "block size"},
		{"bad log level", func(c *CLIConfig) { c.logLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validateCLIConfig(c)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}

	err := validateCLIConfig(&CLIConfig{receive: true, port: "1", blockSize: -5, logLevel: "warn"})
	assert.True(t, errors.Is(err, limits.ErrInvalidBlockSize))
}

func TestCreateOptions(t *testing.T) {
	var diag bytes.Buffer
	opts := createOptions(&CLIConfig{blockSize: 10, ipv4Only: true, printProgress: true}, &diag)
	assert.Equal(t, 10, opts.BlockSize)
	assert.Equal(t, "tcp4", opts.Network)
	assert.True(t, opts.PrintProgress)
	assert.Same(t, &diag, opts.Diagnostics)

	opts = createOptions(&CLIConfig{blockSize: 10, ipv6Only: true}, &diag)
	assert.Equal(t, "tcp6", opts.Network)

	opts = createOptions(&CLIConfig{blockSize: 10}, &diag)
	assert.Equal(t, "tcp", opts.Network)
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out)
	for _, want := range []string{"snc -r", "snc -t DEST", "-block-size", "-print-progress", "Examples:"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestRunReceiveAndTransmit(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp4")
	require.NoError(t, err)
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	require.NoError(t, ln.Close())

	ctx := context.Background()
	var received, rdiag bytes.Buffer
	done := make(chan int, 1)
	go func() {
		cfg := &CLIConfig{receive: true, port: port, blockSize: 64, ipv4Only: true, logLevel: "warn"}
		done <- run(ctx, cfg, nil, &received, &rdiag)
	}()

	payload := strings.Repeat("0123456789", 100)
	send := &CLIConfig{destination: "127.0.0.1", port: port, blockSize: 64, ipv4Only: true, logLevel: "warn"}
	require.Eventually(t, func() bool {
		var tdiag bytes.Buffer
		return run(ctx, send, strings.NewReader(payload), io.Discard, &tdiag) == 0
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(10 * time.Second):
		t.Fatal("receiver did not exit")
	}
	assert.Equal(t, payload, received.String())
}

func TestRunReportsErrors(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp4")
	require.NoError(t, err)
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	require.NoError(t, ln.Close())

	var stderr bytes.Buffer
	cfg := &CLIConfig{destination: "127.0.0.1", port: port, blockSize: 64, logLevel: "warn"}
	code := run(context.Background(), cfg, strings.NewReader("x"), io.Discard, &stderr)

	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr.String(), "snc: transmit: connect "), stderr.String())
}

func TestRunInterruptedIsClean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	cfg := &CLIConfig{receive: true, port: "0", blockSize: 64, ipv4Only: true, logLevel: "warn"}
	assert.Equal(t, 0, run(ctx, cfg, nil, io.Discard, &stderr))
	assert.Empty(t, stderr.String())
}
