package main

import "time"

// Messages crossing the coordination channel. Every background goroutine
// (scan dispatcher, deletion worker, periodic refresher) reports back through
// one shared chan tea.Msg; the model is the only consumer.

// scanRequestMsg asks the controller to start a scan of the current root.
// Subject to the is-scanning gate: a request arriving mid-scan is a no-op.
type scanRequestMsg struct{}

// scanDoneMsg carries the complete entry list for one finished scan. ID is
// the scan generation it was dispatched under; results from a superseded
// generation are discarded.
type scanDoneMsg struct {
	ID      int
	Root    string
	Entries []DirStats
	Elapsed time.Duration
}

// deleteDoneMsg reports the outcome of one recursive delete.
type deleteDoneMsg struct {
	Path string
	Err  error
}

// errorMsg surfaces a background failure in the error slot and the log.
type errorMsg struct {
	Err error
}

// tickMsg drives the elapsed-time readout while a scan is running.
type tickMsg time.Time
