// Package main provides the snc command line tool.
//
// snc moves a byte stream over one TCP connection. Run it with -r on the
// receiving machine to write the incoming stream to stdout, and with -t on
// the sending machine to transmit stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/snc"
	"github.com/opd-ai/snc/limits"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CLI configuration
type CLIConfig struct {
	receive         bool
	destination     string
	port            string
	blockSize       int
	printInterfaces bool
	printPeerInfo   bool
	printProgress   bool
	ipv4Only        bool
	ipv6Only        bool
	logLevel        string
	help            bool
}

// newFlagSet registers every option on a fresh FlagSet.
func newFlagSet(config *CLIConfig, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("snc", flag.ContinueOnError)
	fs.SetOutput(output)

	// Mode
	fs.BoolVar(&config.receive, "r", false, "Receive: listen for one connection and write it to stdout")
	fs.BoolVar(&config.receive, "receive", false, "Same as -r")
	fs.StringVar(&config.destination, "t", "", "Transmit: send stdin to `DEST`")
	fs.StringVar(&config.destination, "transmit", "", "Same as -t")

	// Network configuration
	fs.StringVar(&config.port, "p", limits.DefaultPort, "Port number or service name")
	fs.StringVar(&config.port, "port", limits.DefaultPort, "Same as -p")
	fs.BoolVar(&config.ipv4Only, "4", false, "Use IPv4 only")
	fs.BoolVar(&config.ipv6Only, "6", false, "Use IPv6 only")

	// Transfer
	fs.IntVar(&config.blockSize, "block-size", limits.DefaultBlockSize, "Transfer buffer size in bytes")

	// Diagnostics, all written to stderr
	fs.BoolVar(&config.printInterfaces, "print-interfaces", false, "List local addresses while listening")
	fs.BoolVar(&config.printPeerInfo, "print-peer-info", false, "Print the address of the connecting peer")
	fs.BoolVar(&config.printProgress, "print-progress", false, "Show transfer progress")
	fs.StringVar(&config.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	// Help
	fs.BoolVar(&config.help, "help", false, "Show help message")

	return fs
}

// parseCLIFlags parses args and returns the configuration.
func parseCLIFlags(args []string, output io.Writer) (*CLIConfig, error) {
	config := &CLIConfig{}
	fs := newFlagSet(config, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return config, nil
}

// printUsage prints the usage information.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "snc - simple netcat")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  snc -r [options] > output")
	fmt.Fprintln(w, "  snc -t DEST [options] < input")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	newFlagSet(&CLIConfig{}, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Receive a directory on port 1337")
	fmt.Fprintln(w, "  snc -r -print-progress | tar x")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Send it from another machine")
	fmt.Fprintln(w, "  tar c dir | snc -t receiver.lan -print-progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Listen on a custom port over IPv6 and show who connects")
	fmt.Fprintln(w, "  snc -r -6 -p 9000 -print-interfaces -print-peer-info > file")
}

// validateCLIConfig validates the CLI configuration.
func validateCLIConfig(config *CLIConfig) error {
	if config.receive == (config.destination != "") {
		return errors.New("exactly one of -r or -t DEST is required")
	}

	if config.ipv4Only && config.ipv6Only {
		return errors.New("-4 and -6 cannot be combined")
	}

	if config.port == "" {
		return errors.New("port cannot be empty")
	}

	if err := limits.ValidateBlockSize(config.blockSize); err != nil {
		return errors.Wrapf(err, "block size %d", config.blockSize)
	}

	if _, err := logrus.ParseLevel(config.logLevel); err != nil {
		return errors.Wrap(err, "log level")
	}

	return nil
}

// createOptions converts CLI configuration to transfer options.
func createOptions(config *CLIConfig, diagnostics io.Writer) *snc.Options {
	opts := snc.NewOptions()
	opts.BlockSize = config.blockSize
	opts.PrintInterfaces = config.printInterfaces
	opts.PrintPeerInfo = config.printPeerInfo
	opts.PrintProgress = config.printProgress
	opts.Diagnostics = diagnostics
	switch {
	case config.ipv4Only:
		opts.Network = "tcp4"
	case config.ipv6Only:
		opts.Network = "tcp6"
	}
	return opts
}

// setupLogging routes logs to stderr so they never mix with the data stream.
func setupLogging(level string, output io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(output)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// setupSignalHandling cancels the transfer on SIGINT, SIGTERM or SIGQUIT.
func setupSignalHandling(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logrus.WithFields(logrus.Fields{
			"function": "setupSignalHandling",
			"signal":   sig.String(),
		}).Info("Received signal, stopping transfer")
		cancel()
	}()

	return func() {
		signal.Stop(sigChan)
		close(sigChan)
	}
}

// run executes one transfer and returns the process exit code.
func run(ctx context.Context, config *CLIConfig, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := createOptions(config, stderr)

	var (
		stats *snc.Stats
		err   error
	)
	if config.receive {
		stats, err = snc.Receive(ctx, config.port, stdout, opts)
		err = errors.Wrap(err, "receive")
	} else {
		if f, ok := stdin.(*os.File); ok {
			pf, restore := pollableFile(f)
			defer restore()
			stdin = pf
		}
		stats, err = snc.Transmit(ctx, stdin, config.destination, config.port, opts)
		err = errors.Wrap(err, "transmit")
	}

	if err != nil {
		fmt.Fprintf(stderr, "snc: %v\n", err)
		return 1
	}

	logrus.WithFields(logrus.Fields{
		"function":    "run",
		"bytes":       stats.Bytes,
		"interrupted": stats.Interrupted,
	}).Debug("Transfer complete")
	return 0
}

// main is the entry point for snc.
func main() {
	cliConfig, err := parseCLIFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stdout)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "snc: %v\n", err)
		fmt.Fprintln(os.Stderr, "Use -help for usage information.")
		os.Exit(1)
	}

	// Show help if requested
	if cliConfig.help {
		printUsage(os.Stdout)
		os.Exit(0)
	}

	if err := validateCLIConfig(cliConfig); err != nil {
		fmt.Fprintf(os.Stderr, "snc: %v\n", err)
		fmt.Fprintln(os.Stderr, "Use -help for usage information.")
		os.Exit(1)
	}

	setupLogging(cliConfig.logLevel, os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	stop := setupSignalHandling(cancel)

	code := run(ctx, cliConfig, os.Stdin, os.Stdout, os.Stderr)
	stop()
	cancel()
	os.Exit(code)
}
