package wsclient

import "sync/atomic"

// subscriptionStats are lock-free per-subscription counters updated on
// the multiplexer's hot path, in the style of the estimator package's
// atomic provider stats: plain atomics, no allocations, safe to read
// from any goroutine while the multiplexer keeps writing.
type subscriptionStats struct {
	framesDelivered atomic.Uint64
	lastCounter     atomic.Uint32
	errors          atomic.Uint64
}

// Stats is a point-in-time snapshot of a subscription's counters,
// returned to callers via Client.Stats.
type Stats struct {
	FramesDelivered uint64
	LastCounter     uint32
	Errors          uint64
}

func (s *subscriptionStats) snapshot() Stats {
	return Stats{
		FramesDelivered: s.framesDelivered.Load(),
		LastCounter:     s.lastCounter.Load(),
		Errors:          s.errors.Load(),
	}
}

func (s *subscriptionStats) reset() {
	s.framesDelivered.Store(0)
	s.lastCounter.Store(0)
	s.errors.Store(0)
}

func (s *subscriptionStats) recordFrame(counter uint32) {
	s.framesDelivered.Add(1)
	s.lastCounter.Store(counter)
}

func (s *subscriptionStats) recordError() {
	s.errors.Add(1)
}
