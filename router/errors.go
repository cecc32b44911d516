package router

import "errors"

// Sentinel errors returned by the router package.
//
// Per the engine's design, most misuse (re-entrant mutation from the
// delivery callback, wildcard characters in a published topic) is
// documented as undefined behavior rather than surfaced as an error — see
// the package doc. Exceeding the triggered-topic capacity panics under the
// default OverflowPanic policy. These sentinels cover only the handful of conditions a host can
// reasonably be expected to check for.
var (
	// ErrNilCallback is returned by New when the delivery callback is nil.
	ErrNilCallback = errors.New("router: delivery callback must not be nil")

	// ErrTriggeredCapacityExceeded is returned by Publish when the tree is
	// configured with OverflowPolicy set to OverflowError and the publish
	// would trigger a topic beyond the configured triggered-topic
	// capacity. The caller's contract is to Drain more often; this error
	// exists for hosts that would rather handle a returned error than have
	// Publish panic (the OverflowPanic default).
	ErrTriggeredCapacityExceeded = errors.New("router: triggered topic capacity exceeded, drain before publishing further")
)
