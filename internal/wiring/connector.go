package wiring

import "benchboard/internal/domain"

// Connector is a single pin bound to a block view. It holds its registry id
// between Mount and Unmount.
type Connector struct {
	reg  *Registry
	id   string
	spec domain.PinSpec
}

// Mount registers a connector for spec and attaches onChange, which may be nil.
func Mount(reg *Registry, spec domain.PinSpec, onChange func(domain.Signal)) *Connector {
	id := reg.Register(spec.Role, WithMode(spec.Mode), WithData(spec.Data))
	c := &Connector{reg: reg, id: id, spec: spec}
	if onChange != nil {
		reg.SetChangeCallback(id, onChange)
	}
	return c
}

func (c *Connector) ID() string           { return c.id }
func (c *Connector) Role() domain.Role    { return c.spec.Role }
func (c *Connector) Spec() domain.PinSpec { return c.spec }
func (c *Connector) Mounted() bool        { return c.reg != nil && c.reg.Has(c.id) }

// SetOnChange replaces the callback receiving pushed values.
func (c *Connector) SetOnChange(fn func(domain.Signal)) {
	if c.reg != nil {
		c.reg.SetChangeCallback(c.id, fn)
	}
}

// Drive publishes a new output level. Only sources have an effect.
func (c *Connector) Drive(v domain.Signal) {
	if c.reg != nil {
		c.reg.Push(c.id, v)
	}
}

// Click forwards the wiring gesture to the registry.
func (c *Connector) Click() {
	if c.reg != nil {
		c.reg.Click(c.id)
	}
}

func (c *Connector) Value() domain.Signal {
	if c.reg == nil {
		return domain.SignalUndefined
	}
	return c.reg.Value(c.id)
}

func (c *Connector) Peer() (string, bool) {
	if c.reg == nil {
		return "", false
	}
	return c.reg.Peer(c.id)
}

// Unmount releases the id. It is safe to call more than once.
func (c *Connector) Unmount() {
	if c.reg == nil {
		return
	}
	c.reg.Unregister(c.id)
	c.reg = nil
}
