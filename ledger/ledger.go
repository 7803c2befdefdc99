// Package ledger records the outcome of scoreboard runs, one entry per
// (width, rounding mode) partition, so regressions can be traced across runs.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrDuplicate is returned when an entry for the same run and partition
// was already recorded.
var ErrDuplicate = errors.New("ledger: entry already recorded")

// Entry is the outcome of one partition of a run.
type Entry struct {
	Run       string    `json:"run" msgpack:"run"`
	Width     int       `json:"width" msgpack:"width"`
	Mode      string    `json:"mode" msgpack:"mode"`
	DUT       string    `json:"dut" msgpack:"dut"`
	Reference string    `json:"reference" msgpack:"reference"`
	Total     int       `json:"total" msgpack:"total"`
	Failed    int       `json:"failed" msgpack:"failed"`
	Report    string    `json:"report,omitempty" msgpack:"report,omitempty"`
	Recorded  time.Time `json:"recorded" msgpack:"recorded"`
}

// Key identifies the partition within its run, e.g. "fp16/rne".
func (e Entry) Key() string {
	return fmt.Sprintf("fp%d/%s", e.Width, e.Mode)
}

// Passed reports whether the partition had no failures.
func (e Entry) Passed() bool { return e.Failed == 0 }

// Ledger stores entries. Record fails with ErrDuplicate when the entry's run
// and key are already present. List returns the entries of a run ordered by
// key.
type Ledger interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context, run string) ([]Entry, error)
}

// SortEntries orders entries by width, then mode name.
func SortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Width != b.Width {
			return a.Width - b.Width
		}
		return strings.Compare(a.Mode, b.Mode)
	})
}

// Memory is an in-process Ledger.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]map[string]Entry
}

// NewMemory creates an empty Memory ledger.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]map[string]Entry)}
}

// Record implements Ledger.
func (m *Memory) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[e.Run]
	if !ok {
		run = make(map[string]Entry)
		m.runs[e.Run] = run
	}
	if _, exists := run[e.Key()]; exists {
		return fmt.Errorf("%w: %s %s", ErrDuplicate, e.Run, e.Key())
	}
	run[e.Key()] = e
	return nil
}

// List implements Ledger.
func (m *Memory) List(ctx context.Context, run string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, len(m.runs[run]))
	for _, e := range m.runs[run] {
		out = append(out, e)
	}
	SortEntries(out)
	return out, nil
}
