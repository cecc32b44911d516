package router

import (
	"bytes"

	"github.com/google/uuid"
)

// SubscriberID is a stable, totally-ordered identity for a Subscriber.
//
// The drain algorithm requires a total order on subscribers (spec §9:
// "a stable integer id assigned at subscriber creation is preferable to
// address-based ordering, which is implementation-defined"). A
// uuid.UUID's 16 bytes compare lexicographically, giving exactly that
// total order without relying on pointer addresses.
type SubscriberID uuid.UUID

// compareSubscriberID returns -1, 0 or 1 as a is less than, equal to, or
// greater than b, establishing the total order required by Drain.
func compareSubscriberID(a, b SubscriberID) int {
	return bytes.Compare(a[:], b[:])
}

// maxSubscriberID is the sentinel "larger than any real id" value used to
// seed the running minimum during a publish/drain cycle (original_source's
// `min = (Subscriber *) UINTPTR_MAX`).
var maxSubscriberID = SubscriberID{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// Subscriber is an opaque handle bound to the topic tree by Subscribe.
//
// User is never interpreted by the router; it is the host's connection
// handle or any value the delivery callback knows how to use. The
// subscriptions slice enumerates every leaf this subscriber is registered
// at, purely so UnsubscribeAll can tear it down in O(len(subscriptions))
// without walking the whole trie.
type Subscriber struct {
	ID   SubscriberID
	User any

	subscriptions []*topicNode
}

// NewSubscriber allocates a Subscriber with a freshly generated stable
// identity, wrapping the given user handle.
func NewSubscriber(user any) *Subscriber {
	return &Subscriber{
		ID:   SubscriberID(uuid.New()),
		User: user,
	}
}

// NewSubscriberWithID allocates a Subscriber using a caller-supplied
// identity. Useful for hosts that already mint their own stable connection
// ids and want drain ordering to follow that id rather than a fresh UUID.
func NewSubscriberWithID(id SubscriberID, user any) *Subscriber {
	return &Subscriber{ID: id, User: user}
}
