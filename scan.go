package main

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

type scanOptions struct {
	ShowHidden bool
	Exclude    excludeSet
	Workers    int
}

func (o scanOptions) workerLimit() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// collectEntries enumerates the immediate child directories of root and
// aggregates each one in parallel. Parallelism is bounded by the worker limit
// and, implicitly, by the number of children. The full list is returned in
// one piece; callers never see partial results.
func collectEntries(root string, opts scanOptions) []DirStats {
	children := immediateSubdirs(root, opts.ShowHidden, opts.Exclude)
	if len(children) == 0 {
		return nil
	}

	results := make([]DirStats, len(children))
	var g errgroup.Group
	g.SetLimit(opts.workerLimit())
	for i, child := range children {
		g.Go(func() error {
			results[i] = aggregateDir(child, opts.Exclude)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// sortEntries orders a listing largest-first. The sort is stable so entries
// of equal size keep their enumeration order.
func sortEntries(entries []DirStats) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalBytes > entries[j].TotalBytes
	})
}

// runScan is the scan dispatcher body, run on its own goroutine per scan.
// It emits exactly one completion event, tagged with the generation it was
// dispatched under.
func runScan(root string, opts scanOptions, id int, events chan<- tea.Msg) {
	start := time.Now()
	entries := collectEntries(root, opts)
	events <- scanDoneMsg{ID: id, Root: root, Entries: entries, Elapsed: time.Since(start)}
}

// removeTree deletes target recursively off the UI goroutine. Whatever the
// outcome, it follows up with a scan request: even a failed delete may have
// removed part of the tree, so the listing needs refreshing either way.
func removeTree(target string, events chan<- tea.Msg) {
	err := validateDeleteTarget(target)
	if err == nil {
		err = os.RemoveAll(target)
	}
	events <- deleteDoneMsg{Path: target, Err: err}
	events <- scanRequestMsg{}
}

func validateDeleteTarget(target string) error {
	if target == "" {
		return errors.New("delete: empty path")
	}
	cleaned := filepath.Clean(target)
	if cleaned == string(os.PathSeparator) || filepath.Dir(cleaned) == cleaned {
		return errors.New("delete: refusing to delete a filesystem root")
	}
	return nil
}

// periodicRefresh enqueues a scan request at a fixed interval so the listing
// stays fresh without operator action. The goroutine is never joined; it dies
// with the process.
func periodicRefresh(interval time.Duration, events chan<- tea.Msg) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		events <- scanRequestMsg{}
	}
}

// waitEvent hands the next coordination-channel event to the model. The model
// re-arms it after consuming each event, keeping exactly one receiver alive.
func waitEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
