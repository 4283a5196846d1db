// Package progress renders a single, self-overwriting line that reports how
// many bytes a session has moved so far.
//
// A Tracker throttles partial updates geometrically: a new line is drawn only
// when the running total has grown by the configured step (1.25 by default)
// over the last value shown, so a transfer of N bytes prints O(log N) lines no
// matter how small the chunks are. The final report is always drawn and ends
// the line:
//
//	tracker := progress.New(os.Stderr)
//	for ... {
//	    total += n
//	    tracker.ReportPartial("Received", total)
//	}
//	tracker.ReportFinal("Received", total)
//
// Values are scaled by 1024 through bytes, KiB, MiB and GiB. Byte counts are
// printed as integers, larger units with two decimals: "Received 2.00 KiB."
package progress
