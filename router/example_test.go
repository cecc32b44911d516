package router_test

import (
	"fmt"

	"github.com/gonzalop/topicrouter/router"
)

// ExampleTree demonstrates the batching and deduplication behavior
// described in the package doc: two overlapping subscriptions on a
// publish to "a/b" each receive the message exactly once.
func ExampleTree() {
	tree, err := router.New(func(sub *router.Subscriber, payload []byte) int {
		fmt.Printf("%s: %s\n", sub.User, payload)
		return 0
	})
	if err != nil {
		panic(err)
	}

	s1 := router.NewSubscriber("s1") // subscribed to "a/#"
	s2 := router.NewSubscriber("s2") // subscribed to "a/b"
	tree.Subscribe("a/#", s1)
	tree.Subscribe("a/b", s2)

	tree.Publish("a/b", []byte("hello"))
	tree.Drain()

	// Unordered output:
	// s1: hello
	// s2: hello
}
