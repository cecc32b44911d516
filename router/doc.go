// Package router implements a hierarchical topic-routing engine for
// publish/subscribe fan-out inside a network server.
//
// The engine maintains a trie of '/'-separated topic segments, supports
// MQTT-style wildcards ('+' for a single segment, '#' as a terminating
// multi-segment wildcard), and batches publishes within a "tick" so that
// every subscriber receives one coalesced, deduplicated payload per
// drain instead of one callback per matching topic.
//
// # Dependencies
//
// Apart from the Go standard library, this package imports only
// github.com/google/uuid, which backs SubscriberID. The networking host
// that exercises this engine lives one layer up, in internal/host and
// cmd/topicrouted.
//
// # Quick Start
//
//	tree, err := router.New(func(sub *router.Subscriber, payload []byte) int {
//	    conn := sub.User.(net.Conn)
//	    conn.Write(payload)
//	    return 0
//	})
//	if err != nil {
//	    return err
//	}
//
//	s1 := router.NewSubscriber(conn1)
//	tree.Subscribe("news/sports", s1)
//
//	tree.Publish("news/sports", []byte("final score: 3-2"))
//	tree.Drain() // s1's callback fires exactly once
//
// # Wildcards
//
// Topic filters support two wildcard tokens, each occupying an entire
// segment:
//
//   - '+' matches exactly one segment  ("news/+" matches "news/sports")
//   - '#' matches zero or more trailing segments, including none at all
//     ("news/#" matches "news", "news/sports", and "news/sports/nfl")
//
// Published topics must never contain '+' or '#'; behavior is undefined
// if they do (see the Tree.Publish doc).
//
// # Batching and deduplication
//
// Publishes accumulate in per-topic buffers keyed by a monotonically
// increasing message id. Drain performs a single multi-way merge across
// every triggered topic's subscriber set: each distinct subscriber
// receives exactly one callback invocation containing the union of
// matching messages, in publish order, with duplicates from overlapping
// subscriptions removed. Two subscribers whose triggered-topic
// intersection is identical share one serialized payload.
//
// Example:
//
//	s1 := router.NewSubscriber(nil) // subscribed to "a/#"
//	s2 := router.NewSubscriber(nil) // subscribed to "a/b"
//	tree.Subscribe("a/#", s1)
//	tree.Subscribe("a/b", s2)
//	tree.Publish("a/b", []byte("M"))
//	tree.Drain()
//	// both s1 and s2 receive "M" exactly once
//
// # Concurrency
//
// A Tree has no internal locking. It is designed for a single-threaded
// cooperative event loop: one goroutine owns Subscribe, Publish,
// UnsubscribeAll and Drain. The delivery callback must not re-enter the
// tree (no Subscribe/Publish/Unsubscribe from inside Drain's callback).
package router
