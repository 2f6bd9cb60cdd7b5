// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package countme counts live allocations of tracked types.
//
// Counting is off by default. When enabled, every tracked allocation bumps a
// per-name counter, and a cleanup attached to the allocation decrements the
// live count once the garbage collector reclaims it. The counters are
// process-wide and safe for concurrent use.
package countme

import (
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"text/tabwriter"
)

var (
	enabled  atomic.Bool
	counters sync.Map // map[string]*counter
)

type counter struct {
	total, live, maxLive atomic.Int64
}

// Count is a snapshot of the counters for one name.
type Count struct {
	Name                 string
	Total, Live, MaxLive int64
}

// Enable turns counting on or off. It returns the previous setting.
func Enable(on bool) bool {
	return enabled.Swap(on)
}

// Enabled returns whether counting is on.
func Enabled() bool {
	return enabled.Load()
}

// Track records a new allocation of ptr under name.
func Track[T any](name string, ptr *T) {
	if !enabled.Load() {
		return
	}

	c := get(name)
	c.total.Add(1)
	live := c.live.Add(1)
	for {
		prev := c.maxLive.Load()
		if live <= prev || c.maxLive.CompareAndSwap(prev, live) {
			break
		}
	}

	runtime.AddCleanup(ptr, func(c *counter) { c.live.Add(-1) }, c)
}

// Get returns the counts recorded for name.
func Get(name string) Count {
	c := get(name)
	return Count{
		Name:    name,
		Total:   c.total.Load(),
		Live:    c.live.Load(),
		MaxLive: c.maxLive.Load(),
	}
}

// All returns the counts of every name that was ever tracked, sorted by name.
func All() []Count {
	var out []Count
	counters.Range(func(k, _ any) bool {
		out = append(out, Get(k.(string)))
		return true
	})
	slices.SortFunc(out, func(a, b Count) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Report writes a table of all counters to w.
func Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\ttotal\tlive\tmax live")
	for _, c := range All() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", c.Name, c.Total, c.Live, c.MaxLive)
	}
	return tw.Flush()
}

// CheckLeaks runs the garbage collector and panics if any counter still
// reports more live objects than allowed by baseline.
//
// This is intended for test harnesses; cleanups run asynchronously, so
// callers should only rely on it for objects that have been unreachable for a
// while.
func CheckLeaks(baseline map[string]int64) {
	runtime.GC()
	runtime.GC()
	for _, c := range All() {
		if c.Live > baseline[c.Name] {
			panic(fmt.Sprintf("countme: %d live %s objects, want at most %d", c.Live, c.Name, baseline[c.Name]))
		}
	}
}

func get(name string) *counter {
	if c, ok := counters.Load(name); ok {
		return c.(*counter) //nolint:errcheck
	}
	c, _ := counters.LoadOrStore(name, new(counter))
	return c.(*counter) //nolint:errcheck
}
