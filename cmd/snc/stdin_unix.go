//go:build unix

package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// pollableFile returns a duplicate of f in non-blocking mode, which the
// runtime poller serves, so read deadlines and cancellation work on pipes and
// terminals. restore puts the shared file description back into blocking
// mode and closes the duplicate; f itself stays open.
func pollableFile(f *os.File) (*os.File, func()) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "pollableFile",
			"file":     f.Name(),
			"error":    err.Error(),
		}).Debug("Cannot duplicate descriptor")
		return f, func() {}
	}
	unix.CloseOnExec(fd)

	if err := unix.SetNonblock(fd, true); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "pollableFile",
			"file":     f.Name(),
			"error":    err.Error(),
		}).Debug("Cannot switch descriptor to non-blocking mode")
		unix.Close(fd)
		return f, func() {}
	}

	pf := os.NewFile(uintptr(fd), f.Name())
	return pf, func() {
		if err := unix.SetNonblock(fd, false); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "pollableFile",
				"file":     f.Name(),
				"error":    err.Error(),
			}).Warn("Failed to restore blocking mode")
		}
		pf.Close()
	}
}
