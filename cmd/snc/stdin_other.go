//go:build !unix

package main

import "os"

// pollableFile returns f unchanged; reads that cannot take deadlines are
// still abandoned by the transfer loop on cancellation.
func pollableFile(f *os.File) (*os.File, func()) {
	return f, func() {}
}
