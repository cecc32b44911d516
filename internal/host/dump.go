package host

import (
	"fmt"

	"github.com/gonzalop/topicrouter/router"
)

// DumpTree renders a one-line summary of a Tree's current shape.
//
// This replaces the original TopicTree's print() method, which walked
// the trie printing per-node publish/subscriber counts — spec §1 lists
// "any diagnostic printing" as out of scope for the core, so the
// equivalent lives here, built on Tree's exported read-only Stats
// accessor instead of reaching into the trie directly.
func DumpTree(t *router.Tree) string {
	s := t.Stats()
	return fmt.Sprintf("nodes=%d subscriber_slots=%d triggered=%d", s.NodeCount, s.SubscriberSlots, s.TriggeredCount)
}
