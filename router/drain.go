package router

import "sort"

// Drain sweeps every currently triggered topic and delivers exactly one
// callback per distinct subscriber, containing the deduplicated,
// order-preserving concatenation of every message published this tick
// that matches any of that subscriber's subscriptions (spec §4.3).
//
// After Drain returns, no topic node is triggered and every message
// buffer is empty (spec invariant 4) — a Drain with nothing triggered is
// a no-op.
func (t *Tree) Drain() {
	if len(t.triggered) == 0 {
		return
	}

	if len(t.triggered) == 1 {
		t.drainSingle(t.triggered[0])
	} else {
		t.drainMerge()
	}

	for _, node := range t.triggered {
		node.messages = nil
		node.triggered = false
	}
	t.triggered = t.triggered[:0]
	t.min = maxSubscriberID
}

// drainSingle is the fast path spec §9 describes as "disabled" in the
// original and recommends reintroducing: with exactly one triggered
// topic there is no intersection to compute, so its buffer is
// concatenated once and delivered directly to every one of its
// subscribers.
func (t *Tree) drainSingle(node *topicNode) {
	if len(node.subs) == 0 {
		return
	}
	payload := concatMessages(node.messages)
	for _, sub := range node.subs {
		t.cb(sub, payload)
	}
}

// drainMerge is the general multi-way merge over every triggered topic's
// ordered subscriber set, keyed by an intersection bitmap cache so
// subscribers sharing the same subscription pattern across the triggered
// topics reuse one serialized payload (spec §4.3).
func (t *Tree) drainMerge() {
	n := len(t.triggered)
	cursors := make([]int, n)
	cache := make(map[string][]byte)
	min := t.min

	for anyCursorLive(t.triggered, cursors) {
		bm := newBitset(n)
		var refs [][]bufferedMessage
		var subPtr *Subscriber
		nextMin := maxSubscriberID

		for i := 0; i < n; i++ {
			node := t.triggered[i]
			if cursors[i] < len(node.subs) && node.subs[cursors[i]].ID == min {
				bm.set(i)
				refs = append(refs, node.messages)
				if subPtr == nil {
					subPtr = node.subs[cursors[i]]
				}
				cursors[i]++
			}
			if cursors[i] < len(node.subs) {
				if id := node.subs[cursors[i]].ID; compareSubscriberID(id, nextMin) < 0 {
					nextMin = id
				}
			}
		}

		// An empty bitmap means min named no cursor's current subscriber
		// (e.g. the seeded minimum unsubscribed after publishing), so there
		// is nobody to deliver to this round.
		if !bm.isZero() {
			key := bm.key()
			payload, ok := cache[key]
			if !ok {
				payload = mergePayloads(refs)
				cache[key] = payload
			}
			t.cb(subPtr, payload)
		}

		min = nextMin
	}
}

func anyCursorLive(nodes []*topicNode, cursors []int) bool {
	for i, node := range nodes {
		if cursors[i] < len(node.subs) {
			return true
		}
	}
	return false
}

// concatMessages concatenates an already id-ordered buffer.
func concatMessages(msgs []bufferedMessage) []byte {
	var total int
	for _, m := range msgs {
		total += len(m.payload)
	}
	out := make([]byte, 0, total)
	for _, m := range msgs {
		out = append(out, m.payload...)
	}
	return out
}

// mergePayloads unions one or more topic buffers into a single messageId
// -ordered, duplicate-free payload. Duplicate ids across buffers refer to
// the same publish (the same message reached multiple triggered topics),
// so last-write-wins on the map is equivalent to a set union.
func mergePayloads(refs [][]bufferedMessage) []byte {
	merged := make(map[uint64][]byte)
	for _, buf := range refs {
		for _, m := range buf {
			merged[m.id] = m.payload
		}
	}
	ids := make([]uint64, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var total int
	for _, id := range ids {
		total += len(merged[id])
	}
	out := make([]byte, 0, total)
	for _, id := range ids {
		out = append(out, merged[id]...)
	}
	return out
}
