// Package benchmarks compares the histogram merge strategies.
package benchmarks

import "histo"

// InlineAtomic is the baseline the merge strategies are measured against:
// every sample is an atomic add straight into the shared histogram, with no
// private accumulation. It is correct but contends on every increment.
type InlineAtomic struct{}

func (InlineAtomic) Name() string { return "inline-atomic" }

func (InlineAtomic) Setup(threads, buckets int) {}

func (InlineAtomic) Work(item histo.WorkItem) {
	b := item.Hist.Len()
	r := item.Range()
	for _, s := range item.Data[r.Start:r.End] {
		item.Hist.AddAtomic(histo.BucketOf(s, b), 1)
	}
}

// NewInlineEngine wraps InlineAtomic in a histo.Engine so it runs under the
// same launcher and Setup/Run discipline as the real strategies.
func NewInlineEngine(buckets int) (*histo.Engine, error) {
	return histo.NewWithStrategy(buckets, histo.DefaultThreads, InlineAtomic{})
}
