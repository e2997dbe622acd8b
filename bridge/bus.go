package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/jobfill/idgen"
)

// Handler processes one message on the owning peer's loop and produces
// its single response. For notifications the response is discarded.
type Handler func(ctx context.Context, msg Message) Response

// envelope pairs a message with its optional reply slot.
type envelope struct {
	ctx   context.Context
	msg   Message
	reply chan Response // nil for notifications
}

type peer struct {
	name  string
	inbox chan envelope
	// quit is closed by Unregister, Close or a replacing Register. The
	// inbox itself is never closed: senders may be mid-send when a peer
	// tears down, so teardown is signalled, not closed over.
	quit chan struct{}
}

// Bus is the in-memory message channel. Each registered peer gets a
// mailbox drained by a single goroutine, which models the one-request-
// to-completion event loop of each context: messages from one sender to
// one addressee are processed in send order, and a handler never
// interleaves with another on the same peer.
type Bus struct {
	mu     sync.RWMutex
	peers  map[string]*peer
	closed bool
	logger *slog.Logger
	ids    idgen.Generator
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets a custom logger for the bus.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

// WithIDs sets the generator used to stamp message IDs.
func WithIDs(gen idgen.Generator) Option {
	return func(b *Bus) { b.ids = gen }
}

// New creates an empty bus. Register peers, then Call or Notify them.
func New(opts ...Option) *Bus {
	b := &Bus{
		peers:  make(map[string]*peer),
		logger: slog.Default(),
		ids:    idgen.Prefixed("msg_", idgen.NanoID(12)),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Register attaches a peer under name and starts its mailbox loop.
// Registering an existing name replaces the previous peer.
func (b *Bus) Register(name string, h Handler) {
	p := &peer{
		name:  name,
		inbox: make(chan envelope, 64),
		quit:  make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	old := b.peers[name]
	b.peers[name] = p
	b.mu.Unlock()

	if old != nil {
		close(old.quit)
	}
	go b.drain(p, h)
}

// Unregister removes a peer. Queued messages are abandoned; a caller
// still waiting on a reply sees its own ctx deadline, and new requests
// to the name fail with ErrTargetUnavailable.
func (b *Bus) Unregister(name string) {
	b.mu.Lock()
	p := b.peers[name]
	delete(b.peers, name)
	b.mu.Unlock()

	if p != nil {
		close(p.quit)
	}
}

// Close unregisters every peer and rejects further traffic.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	peers := b.peers
	b.peers = make(map[string]*peer)
	b.mu.Unlock()

	for _, p := range peers {
		close(p.quit)
	}
}

// Call sends a request to target and waits for its single response.
// The context bounds both enqueueing and the wait; an addressee that
// never answers is surfaced as ctx.Err, timeout policy is the caller's.
func (b *Bus) Call(ctx context.Context, target string, kind Kind, payload any) (Response, error) {
	return b.call(ctx, "", target, kind, payload)
}

func (b *Bus) call(ctx context.Context, sender, target string, kind Kind, payload any) (Response, error) {
	msg, err := b.newMessage(sender, kind, payload)
	if err != nil {
		return Response{}, err
	}

	p, err := b.lookup(target)
	if err != nil {
		return Response{}, err
	}

	env := envelope{ctx: ctx, msg: msg, reply: make(chan Response, 1)}
	select {
	case p.inbox <- env:
	case <-p.quit:
		return Response{}, &ErrTargetUnavailable{Target: target}
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case resp := <-env.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Notify sends a fire-and-forget message. A missing target is logged
// and dropped, never an error to the sender.
func (b *Bus) Notify(ctx context.Context, target string, kind Kind, payload any) error {
	return b.notify(ctx, "", target, kind, payload)
}

func (b *Bus) notify(ctx context.Context, sender, target string, kind Kind, payload any) error {
	msg, err := b.newMessage(sender, kind, payload)
	if err != nil {
		return err
	}

	p, err := b.lookup(target)
	if err != nil {
		b.logger.DebugContext(ctx, "bridge: notification dropped",
			"target", target, "kind", string(kind))
		return nil
	}

	select {
	case p.inbox <- envelope{ctx: ctx, msg: msg}:
	case <-p.quit:
		b.logger.DebugContext(ctx, "bridge: notification dropped",
			"target", target, "kind", string(kind))
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Conn is a named attachment to the bus. Messages sent through it
// carry the peer's name as sender.
type Conn struct {
	bus  *Bus
	name string
}

// Conn returns a sender-stamping handle for a peer name. The name does
// not have to be registered; UI surfaces are senders without mailboxes.
func (b *Bus) Conn(name string) *Conn {
	return &Conn{bus: b, name: name}
}

// Call sends a request with this peer as sender.
func (c *Conn) Call(ctx context.Context, target string, kind Kind, payload any) (Response, error) {
	return c.bus.call(ctx, c.name, target, kind, payload)
}

// Notify sends a notification with this peer as sender.
func (c *Conn) Notify(ctx context.Context, target string, kind Kind, payload any) error {
	return c.bus.notify(ctx, c.name, target, kind, payload)
}

func (b *Bus) newMessage(sender string, kind Kind, payload any) (Message, error) {
	msg := Message{ID: b.ids(), Kind: kind, Sender: sender}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("bridge: %s: encode payload: %w", kind, err)
		}
		msg.Payload = raw
	}
	return msg, nil
}

func (b *Bus) lookup(target string) (*peer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &ErrBusClosed{}
	}
	p, ok := b.peers[target]
	if !ok {
		return nil, &ErrTargetUnavailable{Target: target}
	}
	return p, nil
}

// drain runs a peer's mailbox loop until quit closes. Panics at the
// handler boundary become failure responses, never a crashed bus.
func (b *Bus) drain(p *peer, h Handler) {
	for {
		select {
		case env := <-p.inbox:
			resp := b.dispatch(p, h, env)
			if env.reply != nil && !resp.dropped {
				env.reply <- resp
			}
		case <-p.quit:
			return
		}
	}
}

func (b *Bus) dispatch(p *peer, h Handler, env envelope) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			err := &ErrHandlerFailed{Target: p.name, Kind: env.msg.Kind, Cause: fmt.Errorf("%v", r)}
			b.logger.Error("bridge: handler panic", "target", p.name,
				"kind", string(env.msg.Kind), "error", err)
			resp = Failure(err.Error())
		}
	}()
	return h(env.ctx, env.msg)
}
