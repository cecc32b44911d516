package router

import "strings"

// DeliveryFunc is the opaque delivery callback a host supplies to New. It
// is invoked once per subscriber per Drain with that subscriber's
// coalesced payload. Its return value is ignored by the router (spec
// §4.4: "returns an integer (ignored by the core)"); a callback wanting
// backpressure must implement it by buffering internally.
//
// The callback must not call Subscribe, Unsubscribe, UnsubscribeAll or
// Publish on the same Tree while it runs — doing so is undefined
// behavior (spec §4.4).
type DeliveryFunc func(sub *Subscriber, payload []byte) int

// Tree owns the topic trie, the delivery callback, and all per-tick
// publish/drain state. It is not safe for concurrent use: spec §5
// requires a single-threaded cooperative owner (typically an event-loop
// goroutine); there are no internal locks.
type Tree struct {
	root *topicNode
	cb   DeliveryFunc

	cfg treeConfig

	messageID uint64

	triggered []*topicNode
	min       SubscriberID
}

// New constructs an empty Tree with a lone root node and the given
// delivery callback. cb must not be nil.
func New(cb DeliveryFunc, opts ...Option) (*Tree, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	cfg := defaultTreeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tree{
		root:      newTopicNode("", nil),
		cb:        cb,
		cfg:       cfg,
		triggered: make([]*topicNode, 0, cfg.triggeredCapacity),
		min:       maxSubscriberID,
	}, nil
}

// splitTopic splits a topic string on '/' into its segments.
func splitTopic(topic string) []string {
	return strings.Split(topic, "/")
}

// Subscribe registers sub at the node addressed by topic, creating any
// missing trie nodes along the way (spec §4.1).
//
// Calling Subscribe for the same (topic, sub) pair more than once is
// idempotent at the subscriber-set level (sub is added to the node's set
// only once) but appends topic's leaf to sub's subscription list each
// time; the list only drives teardown enumeration, so the duplicate is
// harmless (spec §4.1).
func (t *Tree) Subscribe(topic string, sub *Subscriber) {
	node := t.root
	for _, segment := range splitTopic(topic) {
		child, ok := node.children[segment]
		if !ok {
			child = newTopicNode(segment, node)
			node.children[segment] = child
			switch segment {
			case "+":
				node.wildcardChild = child
			case "#":
				node.terminatingWildcardChild = child
			}
		}
		node = child
	}
	node.addSubscriber(sub)
	sub.subscriptions = append(sub.subscriptions, node)
}

// UnsubscribeAll detaches sub from every leaf it is registered at and
// trims any trie nodes that become empty as a result. A nil sub is a
// no-op (spec §4.1).
func (t *Tree) UnsubscribeAll(sub *Subscriber) {
	if sub == nil {
		return
	}
	for _, node := range sub.subscriptions {
		node.removeSubscriber(sub)
		t.trim(node)
	}
	sub.subscriptions = nil
}

// Unsubscribe removes sub from exactly the leaf addressed by topic and
// trims if that leaf became empty.
//
// Per spec §4.1 this is declared by the external interface but not
// required by the core; it is implemented here per the design note's
// recommendation (walk the topic path with exact-segment lookups, erase
// at the leaf, trim). topic is matched as a literal path — a '+' or '#'
// segment in it is looked up as a literal child, not expanded as a
// wildcard, since the caller is expected to pass back the exact filter it
// subscribed with.
func (t *Tree) Unsubscribe(topic string, sub *Subscriber) {
	if sub == nil {
		return
	}
	node := t.root
	for _, segment := range splitTopic(topic) {
		child, ok := node.children[segment]
		if !ok {
			return
		}
		node = child
	}
	node.removeSubscriber(sub)
	for i, n := range sub.subscriptions {
		if n == node {
			sub.subscriptions = append(sub.subscriptions[:i], sub.subscriptions[i+1:]...)
			break
		}
	}
	t.trim(node)
}

// trim culls node from its parent's children, wildcard shortcut and all,
// if it has become empty, then recurses toward the root — stopping
// exactly at the root without ever asking whether the root itself should
// be pruned (spec invariant 3; original_source's trimTree never inspects
// root's own emptiness).
func (t *Tree) trim(node *topicNode) {
	if node == t.root || !node.isEmpty() {
		return
	}
	parent := node.parent
	switch node.segment {
	case "+":
		parent.wildcardChild = nil
	case "#":
		parent.terminatingWildcardChild = nil
	}
	delete(parent.children, node.segment)
	if parent != t.root {
		t.trim(parent)
	}
}

// TreeStats summarizes a Tree's current shape, for hosts that want to
// expose introspection without resorting to diagnostic printing from
// inside the core (see internal/host's DumpTree, which consumes this).
type TreeStats struct {
	NodeCount       int
	SubscriberSlots int // sum of len(node.subs) over every node; a subscriber on N topics counts N times
	TriggeredCount  int
}

// Stats walks the trie and reports its current size. It never mutates the
// tree and may be called at any time, including mid-tick.
func (t *Tree) Stats() TreeStats {
	var s TreeStats
	var walk func(n *topicNode)
	walk = func(n *topicNode) {
		s.NodeCount++
		s.SubscriberSlots += len(n.subs)
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
	s.TriggeredCount = len(t.triggered)
	return s
}
