// Package host is a minimal reference networking host for router.Tree.
//
// It exists to exercise the engine end-to-end and to demonstrate the
// boundary spec.md draws around it: host owns connections, subscriber
// lifecycle, and the delivery callback; router.Tree owns none of that
// (spec §1 OUT OF SCOPE — "The socket/transport layer that owns
// subscribers and performs the actual writes; the core invokes an opaque
// delivery callback").
//
// The wire protocol here is a toy, newline-framed text protocol chosen
// for legibility, not a production transport:
//
//	SUB <topic>
//	UNSUB <topic>
//	PUB <topic> <payload...>
//
// It is not part of the spec and carries no compatibility guarantee.
package host

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gonzalop/topicrouter/router"
)

// actionKind identifies which Tree operation an actionMsg carries.
type actionKind int

const (
	actionSubscribe actionKind = iota
	actionUnsubscribe
	actionPublish
	actionDisconnect
)

type actionMsg struct {
	kind    actionKind
	sub     *router.Subscriber
	topic   string
	payload []byte
}

// Options configures a Host. Zero-valued fields are replaced by defaults
// in New.
type Options struct {
	Logger            *slog.Logger
	DrainInterval     time.Duration
	TriggeredCapacity int

	// Clock supplies the ticker dispatchLoop drains on. Defaults to the
	// real wall clock; hosts under test can inject a fake to advance the
	// drain cycle deterministically instead of sleeping and hoping.
	Clock Clock
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	if o.DrainInterval <= 0 {
		o.DrainInterval = 50 * time.Millisecond
	}
	if o.TriggeredCapacity <= 0 {
		o.TriggeredCapacity = 64
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	return o
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Host owns a router.Tree, a TCP listener, and the single dispatch
// goroutine that is the tree's sole caller — mirroring the teacher's
// logicLoop pattern of one goroutine draining a channel under a
// single-threaded ownership model instead of guarding the tree with a
// mutex (spec §5: "there are no internal locks").
type Host struct {
	opts Options
	tree *router.Tree

	actions chan actionMsg

	// applied counts actions apply has processed. It exists so tests can
	// wait for a subscribe or publish to have actually reached the tree
	// without reading tree state from outside dispatchLoop's goroutine.
	applied atomic.Int64
}

// New constructs a Host. The delivery callback writes each subscriber's
// coalesced payload to its connection, framed with a trailing newline.
func New(opts Options) (*Host, error) {
	opts = opts.withDefaults()

	h := &Host{
		opts:    opts,
		actions: make(chan actionMsg, 256),
	}

	tree, err := router.New(h.deliver, router.WithTriggeredCapacity(opts.TriggeredCapacity))
	if err != nil {
		return nil, err
	}
	h.tree = tree
	return h, nil
}

// Tree exposes the underlying router.Tree, mainly so DumpTree can
// introspect it. Callers other than dispatchLoop must not call mutating
// methods on it while Serve is running.
func (h *Host) Tree() *router.Tree { return h.tree }

// Applied reports how many actions dispatchLoop has processed so far,
// for tests that need to wait for a subscribe or publish to land before
// proceeding.
func (h *Host) Applied() int64 { return h.applied.Load() }

func (h *Host) deliver(sub *router.Subscriber, payload []byte) int {
	conn, ok := sub.User.(net.Conn)
	if !ok || conn == nil {
		return 0
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		h.opts.Logger.Warn("delivery write failed", "subscriber", sub.ID, "error", err)
		return 1
	}
	return 0
}

// Serve accepts connections on addr and runs the dispatch loop until ctx
// is cancelled or an unrecoverable error occurs.
func (h *Host) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("host: listen: %w", err)
	}
	defer lis.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.acceptLoop(ctx, lis)
	})
	g.Go(func() error {
		return h.dispatchLoop(ctx)
	})

	h.opts.Logger.Info("host listening", "addr", lis.Addr().String())
	return g.Wait()
}

func (h *Host) acceptLoop(ctx context.Context, lis net.Listener) error {
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("host: accept: %w", err)
		}
		go h.handleConn(ctx, conn)
	}
}

func (h *Host) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sub := router.NewSubscriber(conn)
	scanner := bufio.NewScanner(conn)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if msg, ok := parseLine(sub, scanner.Text()); ok {
			select {
			case h.actions <- msg:
			case <-ctx.Done():
				return
			}
		}
	}

	select {
	case h.actions <- actionMsg{kind: actionDisconnect, sub: sub}:
	case <-ctx.Done():
	}
}

func parseLine(sub *router.Subscriber, line string) (actionMsg, bool) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 3)
	if len(fields) == 0 || fields[0] == "" {
		return actionMsg{}, false
	}
	switch strings.ToUpper(fields[0]) {
	case "SUB":
		if len(fields) < 2 {
			return actionMsg{}, false
		}
		return actionMsg{kind: actionSubscribe, sub: sub, topic: fields[1]}, true
	case "UNSUB":
		if len(fields) < 2 {
			return actionMsg{}, false
		}
		return actionMsg{kind: actionUnsubscribe, sub: sub, topic: fields[1]}, true
	case "PUB":
		if len(fields) < 3 {
			return actionMsg{}, false
		}
		return actionMsg{kind: actionPublish, sub: sub, topic: fields[1], payload: []byte(fields[2])}, true
	default:
		return actionMsg{}, false
	}
}

// dispatchLoop is the sole goroutine permitted to call into h.tree,
// matching the teacher's logicLoop shape: one select over an inbound
// channel and a ticker, everything else routed through it.
func (h *Host) dispatchLoop(ctx context.Context) error {
	ticker := h.opts.Clock.NewTicker(h.opts.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-h.actions:
			h.apply(msg)
			h.applied.Add(1)

		case <-ticker.C():
			h.tree.Drain()
		}
	}
}

func (h *Host) apply(msg actionMsg) {
	switch msg.kind {
	case actionSubscribe:
		h.tree.Subscribe(msg.topic, msg.sub)
	case actionUnsubscribe:
		h.tree.Unsubscribe(msg.topic, msg.sub)
	case actionPublish:
		if err := h.tree.Publish(msg.topic, msg.payload); err != nil {
			h.opts.Logger.Error("publish rejected", "topic", msg.topic, "error", err)
		}
	case actionDisconnect:
		h.tree.UnsubscribeAll(msg.sub)
	}
}
