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

// Package metrics aggregates timing histograms.
//
// A [Registry] is created by the top-level program, threaded through a
// [context.Context], and printed with [Registry.Report] when the program is
// done. Every method is safe to call on a nil *Registry, in which case it
// does nothing.
package metrics

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"text/tabwriter"
	"time"
)

// Registry is a collection of named histograms.
type Registry struct {
	mu    sync.RWMutex
	hists map[string]*Histogram
}

// Histogram is a collection of samples for one metric.
type Histogram struct {
	mu      sync.Mutex
	samples []time.Duration
}

// Summary summarizes the samples in a [Histogram].
type Summary struct {
	Name               string
	Count              int
	Min, P50, P95, Max time.Duration
	Total              time.Duration
}

type contextKey struct{}

// NewRegistry returns a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{hists: make(map[string]*Histogram)}
}

// WithRegistry returns a context that carries r.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the registry carried by ctx, or nil.
func FromContext(ctx context.Context) *Registry {
	r, _ := ctx.Value(contextKey{}).(*Registry)
	return r
}

// Record adds a sample to the histogram with the given name.
func (r *Registry) Record(name string, d time.Duration) {
	if r == nil {
		return
	}
	h := r.histogram(name)
	h.mu.Lock()
	h.samples = append(h.samples, d)
	h.mu.Unlock()
}

// Time starts a timer, returning a function that records the elapsed time
// under name when called.
func (r *Registry) Time(name string) func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() { r.Record(name, time.Since(start)) }
}

// Summaries returns a summary of every histogram, sorted by name.
func (r *Registry) Summaries() []Summary {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	names := make([]string, 0, len(r.hists))
	for name := range r.hists {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)

	out := make([]Summary, 0, len(names))
	for _, name := range names {
		out = append(out, r.histogram(name).summarize(name))
	}
	return out
}

// Report writes a table of every histogram to w.
func (r *Registry) Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "metric\tcount\tmin\tp50\tp95\tmax\ttotal\t")
	for _, s := range r.Summaries() {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\t%v\t%v\t\n",
			s.Name, s.Count, s.Min, s.P50, s.P95, s.Max, s.Total)
	}
	return tw.Flush()
}

// histogram looks up a histogram, creating it if necessary.
func (r *Registry) histogram(name string) *Histogram {
	r.mu.RLock()
	h := r.hists[name]
	r.mu.RUnlock()
	if h != nil {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h = r.hists[name]; h == nil {
		h = new(Histogram)
		if r.hists == nil {
			r.hists = make(map[string]*Histogram)
		}
		r.hists[name] = h
	}
	return h
}

func (h *Histogram) summarize(name string) Summary {
	h.mu.Lock()
	samples := slices.Clone(h.samples)
	h.mu.Unlock()

	s := Summary{Name: name, Count: len(samples)}
	if len(samples) == 0 {
		return s
	}
	slices.SortFunc(samples, cmp.Compare[time.Duration])
	for _, d := range samples {
		s.Total += d
	}
	s.Min = samples[0]
	s.Max = samples[len(samples)-1]
	s.P50 = samples[(len(samples)-1)*50/100]
	s.P95 = samples[(len(samples)-1)*95/100]
	return s
}
