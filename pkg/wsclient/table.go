package wsclient

// subscriptionTable is the fixed 256-slot mapping from subscription id
// to the sink that owns it (spec §3, §4.2). It is private, mutable
// state of the multiplexer goroutine and is never touched from any
// other goroutine — no locking required (spec §5's central invariant).
type subscriptionTable struct {
	slots  [256]*unboundedQueue
	nextID uint8
}

// allocate finds a free slot, installs sink, and returns its id. It
// examines the slot at nextID first (the common case is O(1)), falling
// back to a linear scan for the first empty slot. nextID always
// advances by one (8-bit wrapping) regardless of outcome, per spec
// §4.2 — including on MaxConcurrentRequestLimitReached, which differs
// from a literal reading of the reference implementation but matches
// the specification text (see DESIGN.md).
func (t *subscriptionTable) allocate(sink *unboundedQueue) (uint8, error) {
	defer func() { t.nextID++ }()

	if t.slots[t.nextID] == nil {
		id := t.nextID
		t.slots[id] = sink
		return id, nil
	}

	for i := 0; i < len(t.slots); i++ {
		id := uint8(i)
		if t.slots[id] == nil {
			t.slots[id] = sink
			return id, nil
		}
	}

	return 0, ErrMaxConcurrentRequestLimitReached
}

// get returns the sink installed for id, if any.
func (t *subscriptionTable) get(id uint8) (*unboundedQueue, bool) {
	s := t.slots[id]
	return s, s != nil
}

// free releases id's slot, making it eligible for reuse by a future
// allocate call.
func (t *subscriptionTable) free(id uint8) {
	t.slots[id] = nil
}

// all returns every currently-installed sink, for connection-teardown.
func (t *subscriptionTable) all() []*unboundedQueue {
	out := make([]*unboundedQueue, 0, len(t.slots))
	for _, s := range t.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
