package router

import "testing"

// TestDrainSingleTopicFastPath exercises drainSingle directly: exactly one
// triggered topic skips the bitmap merge entirely.
func TestDrainSingleTopicFastPath(t *testing.T) {
	tree, got := newTestTree(t)
	s1, s2 := idSub(1, nil), idSub(2, nil)
	tree.Subscribe("a/b", s1)
	tree.Subscribe("a/b", s2)

	mustPublish(t, tree, "a/b", "only")
	tree.Drain()

	assertDeliveries(t, *got, map[SubscriberID]string{s1.ID: "only", s2.ID: "only"})
}

// TestDrainSingleTopicSkipsSubscriberlessNode checks drainSingle's early
// return when the sole triggered node has no subscribers left because its
// only subscriber unsubscribed between publish and drain: the orphaned
// buffer must not panic or deliver.
func TestDrainSingleTopicSkipsSubscriberlessNode(t *testing.T) {
	tree, got := newTestTree(t)
	s1 := idSub(1, nil)
	tree.Subscribe("a/b", s1)
	mustPublish(t, tree, "a/b", "x")
	tree.Unsubscribe("a/b", s1)

	tree.Drain()

	if len(*got) != 0 {
		t.Fatalf("expected no deliveries, got %+v", *got)
	}
}

// TestDrainMergeEquivalentToSingleForOneTopic checks that drainMerge (the
// general path, forced here by calling it directly with one triggered
// node) produces the same payload as drainSingle would.
func TestDrainMergeEquivalentToSingleForOneTopic(t *testing.T) {
	tree, got := newTestTree(t)
	s1 := idSub(1, nil)
	tree.Subscribe("a/b", s1)
	mustPublish(t, tree, "a/b", "v1")
	mustPublish(t, tree, "a/b", "v2")

	tree.drainMerge()

	if len(*got) != 1 || string((*got)[0].payload) != "v1v2" {
		t.Fatalf("got %+v, want single delivery of v1v2", *got)
	}
}

// TestDrainMergeDisjointSubscribersGetDistinctBitmaps covers the
// intersection cache: two subscribers present at disjoint sets of
// triggered topics must not share a cached payload.
func TestDrainMergeDisjointSubscribersGetDistinctBitmaps(t *testing.T) {
	tree, got := newTestTree(t)
	s1, s2 := idSub(1, nil), idSub(2, nil)
	tree.Subscribe("a", s1)
	tree.Subscribe("b", s2)

	mustPublish(t, tree, "a", "A")
	mustPublish(t, tree, "b", "B")
	tree.Drain()

	assertDeliveries(t, *got, map[SubscriberID]string{s1.ID: "A", s2.ID: "B"})
}

// TestDrainMergeSharedSubscriberReusesCachedPayload covers the case the
// intersection bitmap cache exists for: two subscribers registered on
// exactly the same pair of triggered topics get byte-identical payload
// slices out of the cache.
func TestDrainMergeSharedSubscriberReusesCachedPayload(t *testing.T) {
	tree, got := newTestTree(t)
	s1, s2 := idSub(1, nil), idSub(2, nil)
	tree.Subscribe("a", s1)
	tree.Subscribe("b", s1)
	tree.Subscribe("a", s2)
	tree.Subscribe("b", s2)

	mustPublish(t, tree, "a", "A")
	mustPublish(t, tree, "b", "B")
	tree.Drain()

	assertDeliveries(t, *got, map[SubscriberID]string{s1.ID: "AB", s2.ID: "AB"})

	var p1, p2 []byte
	for _, d := range *got {
		if d.sub.ID == s1.ID {
			p1 = d.payload
		}
		if d.sub.ID == s2.ID {
			p2 = d.payload
		}
	}
	if string(p1) != string(p2) {
		t.Fatalf("expected shared payload via the intersection cache, got %q and %q", p1, p2)
	}
}

func TestConcatMessagesPreservesAppendOrder(t *testing.T) {
	msgs := []bufferedMessage{{id: 1, payload: []byte("a")}, {id: 2, payload: []byte("b")}}
	if got := string(concatMessages(msgs)); got != "ab" {
		t.Fatalf("concatMessages = %q, want %q", got, "ab")
	}
}

func TestMergePayloadsDedupsByMessageIDAndSortsAscending(t *testing.T) {
	refs := [][]bufferedMessage{
		{{id: 2, payload: []byte("B")}, {id: 1, payload: []byte("A")}},
		{{id: 1, payload: []byte("A")}, {id: 3, payload: []byte("C")}},
	}
	if got := string(mergePayloads(refs)); got != "ABC" {
		t.Fatalf("mergePayloads = %q, want %q", got, "ABC")
	}
}
