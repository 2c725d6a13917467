// Package wiring tracks pin identity, pairing and one-hop signal
// propagation for a sandbox session.
//
// A Registry is not safe for concurrent use. Every operation runs to
// completion inside the handler of the host event that triggered it, and
// change callbacks are invoked synchronously from within the operation.
// Hosts with several event goroutines serialize access themselves (see
// sandbox.Session).
package wiring

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"benchboard/internal/domain"
)

// Registry owns every connector of one sandbox session, the connection
// graph between them and the pending wiring selection.
type Registry struct {
	connectors map[string]*connector
	pending    string
	listeners  map[int]func()
	nextListen int
	closed     bool
}

type connector struct {
	role     domain.Role
	mode     domain.Mode
	data     any
	value    domain.Signal
	peer     string
	onChange func(domain.Signal)
}

// Option configures a connector at registration.
type Option func(*connector)

// WithMode sets the pin mode used to accept or reject pairings.
func WithMode(m domain.Mode) Option {
	return func(c *connector) { c.mode = m }
}

// WithData attaches opaque data readable by the peer side (clock frequency).
func WithData(v any) Option {
	return func(c *connector) { c.data = v }
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		connectors: make(map[string]*connector),
		listeners:  make(map[int]func()),
	}
}

// Register allocates a fresh id for a connector with the given role.
// It returns "" once the registry is closed.
func (r *Registry) Register(role domain.Role, opts ...Option) string {
	if r.closed {
		return ""
	}
	c := &connector{role: role, value: domain.SignalUndefined}
	for _, opt := range opts {
		opt(c)
	}
	id := r.newID()
	r.connectors[id] = c
	r.fire()
	return id
}

func (r *Registry) newID() string {
	for {
		id := uuid.New().String()
		if _, taken := r.connectors[id]; !taken {
			return id
		}
	}
}

// SetChangeCallback attaches or replaces the callback receiving values
// pushed by a connected source.
func (r *Registry) SetChangeCallback(id string, cb func(domain.Signal)) {
	if c, ok := r.connectors[id]; ok {
		c.onChange = cb
	}
}

// Unregister severs any connection of id and frees it. A surviving sink
// peer is reset to undefined; a surviving source keeps its value.
func (r *Registry) Unregister(id string) {
	c, ok := r.connectors[id]
	if !ok {
		return
	}
	if r.pending == id {
		r.pending = ""
	}
	var survivor *connector
	if c.peer != "" {
		survivor = r.peerOf(id, c)
		r.unlink(c, survivor)
	}
	delete(r.connectors, id)
	if survivor != nil {
		r.resetSink(survivor)
	}
	r.fire()
}

// Push sets the value of a source connector and forwards it to a connected
// sink. Sinks, unknown ids and unchanged values are ignored.
func (r *Registry) Push(id string, v domain.Signal) {
	c, ok := r.connectors[id]
	if !ok || c.role != domain.RoleSource || c.value == v {
		return
	}
	c.value = v
	if c.peer != "" {
		r.deliver(r.peerOf(id, c), v)
	}
}

// Click applies the interactive wiring gesture to id: it first drops an
// existing connection, then either selects id, deselects it, or pairs it
// with the pending selection.
func (r *Registry) Click(id string) {
	c, ok := r.connectors[id]
	if !ok {
		return
	}

	changed := false
	if c.peer != "" {
		other := r.peerOf(id, c)
		r.unlink(c, other)
		changed = true
		r.resetSink(c)
		r.resetSink(other)
		// A callback may have unmounted the clicked pin.
		if _, ok := r.connectors[id]; !ok {
			r.fire()
			return
		}
	}

	switch r.pending {
	case "":
		r.pending = id
	case id:
		r.pending = ""
	default:
		otherID := r.pending
		r.pending = ""
		other := r.connectors[otherID]
		if other.peer != "" {
			panic(fmt.Sprintf("wiring: pending connector %s already has a peer", otherID))
		}
		if domain.Connectable(c.mode, other.mode) {
			c.peer, other.peer = otherID, id
			changed = true
			switch {
			case c.role == domain.RoleSource && other.role == domain.RoleSink:
				r.deliver(other, c.value)
			case other.role == domain.RoleSource && c.role == domain.RoleSink:
				r.deliver(c, other.value)
			}
		}
	}

	if changed {
		r.fire()
	}
}

// Disconnect drops the wire on id without touching the pending selection.
// Both sinks fall back to undefined. It reports whether a wire was removed.
func (r *Registry) Disconnect(id string) bool {
	c, ok := r.connectors[id]
	if !ok || c.peer == "" {
		return false
	}
	other := r.peerOf(id, c)
	r.unlink(c, other)
	r.resetSink(c)
	r.resetSink(other)
	r.fire()
	return true
}

// Peer returns the id connected to id.
func (r *Registry) Peer(id string) (string, bool) {
	c, ok := r.connectors[id]
	if !ok || c.peer == "" {
		return "", false
	}
	return c.peer, true
}

// Pending returns the connector awaiting a second click.
func (r *Registry) Pending() (string, bool) {
	return r.pending, r.pending != ""
}

// Value returns the stored value of a source, or the last value pushed to a
// sink. Unknown ids read as undefined.
func (r *Registry) Value(id string) domain.Signal {
	if c, ok := r.connectors[id]; ok {
		return c.value
	}
	return domain.SignalUndefined
}

func (r *Registry) Role(id string) (domain.Role, bool) {
	c, ok := r.connectors[id]
	if !ok {
		return domain.RoleSink, false
	}
	return c.role, true
}

func (r *Registry) Mode(id string) (domain.Mode, bool) {
	c, ok := r.connectors[id]
	if !ok {
		return domain.ModeNormal, false
	}
	return c.mode, true
}

// Data returns the opaque data attached at registration.
func (r *Registry) Data(id string) any {
	if c, ok := r.connectors[id]; ok {
		return c.data
	}
	return nil
}

func (r *Registry) Has(id string) bool {
	_, ok := r.connectors[id]
	return ok
}

func (r *Registry) Len() int { return len(r.connectors) }

// IDs returns every live connector id in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.connectors))
	for id := range r.connectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Wires returns each connected pair once, sorted by id.
func (r *Registry) Wires() []domain.Wire {
	var wires []domain.Wire
	for id, c := range r.connectors {
		if c.peer != "" && id < c.peer {
			wires = append(wires, domain.Wire{A: id, B: c.peer})
		}
	}
	sort.Slice(wires, func(i, j int) bool { return wires[i].A < wires[j].A })
	return wires
}

// OnChange registers a listener fired after every topology change
// (register, unregister, connect, disconnect). Value pushes do not fire it.
// The returned func removes the listener.
func (r *Registry) OnChange(fn func()) (cancel func()) {
	if r.closed {
		return func() {}
	}
	key := r.nextListen
	r.nextListen++
	r.listeners[key] = fn
	return func() { delete(r.listeners, key) }
}

// Close invalidates every id and drops all listeners. Further operations
// are no-ops.
func (r *Registry) Close() {
	r.connectors = make(map[string]*connector)
	r.listeners = make(map[int]func())
	r.pending = ""
	r.closed = true
}

// Verify checks the graph invariants. A non-nil result is a defect in the
// registry itself.
func (r *Registry) Verify() error {
	for id, c := range r.connectors {
		if c.peer == "" {
			continue
		}
		if c.peer == id {
			return fmt.Errorf("connector %s is paired with itself", id)
		}
		other, ok := r.connectors[c.peer]
		if !ok {
			return fmt.Errorf("connector %s points at freed peer %s", id, c.peer)
		}
		if other.peer != id {
			return fmt.Errorf("asymmetric peers: %s -> %s -> %q", id, c.peer, other.peer)
		}
	}
	if r.pending != "" {
		c, ok := r.connectors[r.pending]
		if !ok {
			return fmt.Errorf("pending selection %s is not registered", r.pending)
		}
		if c.peer != "" {
			return fmt.Errorf("pending selection %s is connected", r.pending)
		}
	}
	return nil
}

func (r *Registry) peerOf(id string, c *connector) *connector {
	other, ok := r.connectors[c.peer]
	if !ok || other.peer != id {
		panic(fmt.Sprintf("wiring: asymmetric peers %s -> %s", id, c.peer))
	}
	return other
}

func (r *Registry) unlink(a, b *connector) {
	a.peer, b.peer = "", ""
}

func (r *Registry) deliver(c *connector, v domain.Signal) {
	if c.role != domain.RoleSink {
		return
	}
	c.value = v
	if c.onChange != nil {
		c.onChange(v)
	}
}

func (r *Registry) resetSink(c *connector) {
	r.deliver(c, domain.SignalUndefined)
}

func (r *Registry) fire() {
	keys := make([]int, 0, len(r.listeners))
	for k := range r.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if fn, ok := r.listeners[k]; ok {
			fn()
		}
	}
}
