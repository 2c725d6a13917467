package wiring_test

import (
	"testing"

	"benchboard/internal/domain"
	"benchboard/internal/wiring"
)

type spy struct {
	calls []domain.Signal
}

func (s *spy) fn(v domain.Signal) { s.calls = append(s.calls, v) }

func mustVerify(t *testing.T, r *wiring.Registry) {
	t.Helper()
	if err := r.Verify(); err != nil {
		t.Fatalf("invariant broken: %v", err)
	}
}

func TestRegister_FreshConnector(t *testing.T) {
	r := wiring.New()
	id := r.Register(domain.RoleSource)
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if got := r.Value(id); got != domain.SignalUndefined {
		t.Errorf("expected undefined value, got %v", got)
	}
	if _, ok := r.Peer(id); ok {
		t.Error("fresh connector should have no peer")
	}
	if role, ok := r.Role(id); !ok || role != domain.RoleSource {
		t.Errorf("expected source role, got %v (ok=%v)", role, ok)
	}
}

func TestRegister_UniqueIDs(t *testing.T) {
	r := wiring.New()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := r.Register(domain.RoleSink)
		if seen[id] {
			t.Fatalf("id %s reused", id)
		}
		seen[id] = true
	}
	if r.Len() != 500 {
		t.Errorf("expected 500 connectors, got %d", r.Len())
	}
}

func TestRegisterUnregister_NoLeak(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	r.Click(a)
	r.Click(b)
	p := r.Register(domain.RoleSink)
	r.Click(p) // leaves p pending

	wiresBefore := r.Wires()
	pendingBefore, _ := r.Pending()

	id := r.Register(domain.RoleSource)
	r.Unregister(id)

	if got := r.Wires(); len(got) != len(wiresBefore) || got[0] != wiresBefore[0] {
		t.Errorf("wires changed: before %v, after %v", wiresBefore, got)
	}
	if got, _ := r.Pending(); got != pendingBefore {
		t.Errorf("pending changed: before %q, after %q", pendingBefore, got)
	}
	mustVerify(t, r)
}

func TestClick_Pairing(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)

	r.Click(a)
	if p, ok := r.Pending(); !ok || p != a {
		t.Fatalf("expected %s pending, got %q", a, p)
	}
	r.Click(b)

	if p, _ := r.Peer(a); p != b {
		t.Errorf("A.peer = %q, want %q", p, b)
	}
	if p, _ := r.Peer(b); p != a {
		t.Errorf("B.peer = %q, want %q", p, a)
	}
	if _, ok := r.Pending(); ok {
		t.Error("pending selection should be cleared after pairing")
	}
	if w := r.Wires(); len(w) != 1 {
		t.Errorf("expected 1 wire, got %d", len(w))
	}
	mustVerify(t, r)
}

func TestClick_Toggle(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)

	r.Click(a)
	r.Click(a)

	if _, ok := r.Pending(); ok {
		t.Error("expected pending selection cleared")
	}
	if _, ok := r.Peer(a); ok {
		t.Error("toggle must not create a connection")
	}
	if len(r.Wires()) != 0 {
		t.Error("expected no wires")
	}
}

func TestClick_UnknownID(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	r.Click(a)
	r.Click("does-not-exist")
	if p, _ := r.Pending(); p != a {
		t.Errorf("unknown click must not touch pending, got %q", p)
	}
}

func TestPropagation(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	s := &spy{}
	r.SetChangeCallback(b, s.fn)

	r.Push(a, domain.SignalHigh)
	if len(s.calls) != 0 {
		t.Fatalf("push before connecting must not reach the sink, got %v", s.calls)
	}

	r.Click(a)
	r.Click(b)
	if len(s.calls) != 1 || s.calls[0] != domain.SignalHigh {
		t.Fatalf("expected exactly one HIGH on connect, got %v", s.calls)
	}

	r.Push(a, domain.SignalLow)
	if len(s.calls) != 2 || s.calls[1] != domain.SignalLow {
		t.Fatalf("expected exactly one LOW after push, got %v", s.calls)
	}

	r.Push(a, domain.SignalLow)
	if len(s.calls) != 2 {
		t.Errorf("unchanged push must be ignored, got %v", s.calls)
	}
	if got := r.Value(b); got != domain.SignalLow {
		t.Errorf("sink value = %v, want L", got)
	}
}

func TestPush_SinkIgnored(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	s := &spy{}
	r.SetChangeCallback(a, s.fn)
	r.Click(b)
	r.Click(a)

	r.Push(b, domain.SignalHigh)
	if got := r.Value(b); got != domain.SignalUndefined {
		t.Errorf("sink value must not be set by push, got %v", got)
	}
	if len(s.calls) != 0 {
		t.Errorf("source callback must never fire, got %v", s.calls)
	}
}

func TestPairing_SinkClickedFirst(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	r.Push(a, domain.SignalHigh)
	s := &spy{}
	r.SetChangeCallback(b, s.fn)

	r.Click(b)
	r.Click(a)
	if len(s.calls) != 1 || s.calls[0] != domain.SignalHigh {
		t.Fatalf("expected HIGH delivered, got %v", s.calls)
	}
}

func TestUnregister_ConnectedSource(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	other := r.Register(domain.RoleSource)
	r.Push(other, domain.SignalHigh)
	s := &spy{}
	r.SetChangeCallback(b, s.fn)
	r.Push(a, domain.SignalHigh)
	r.Click(a)
	r.Click(b)
	s.calls = nil

	r.Unregister(a)

	if len(s.calls) != 1 || s.calls[0] != domain.SignalUndefined {
		t.Fatalf("expected exactly one UNDEFINED, got %v", s.calls)
	}
	if _, ok := r.Peer(b); ok {
		t.Error("survivor should be disconnected")
	}
	if r.Has(a) {
		t.Error("unregistered id should be freed")
	}
	if got := r.Value(other); got != domain.SignalHigh {
		t.Errorf("unrelated source value changed to %v", got)
	}
	mustVerify(t, r)
}

func TestUnregister_SurvivingSourceKeepsValue(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	r.Push(a, domain.SignalHigh)
	r.Click(a)
	r.Click(b)

	r.Unregister(b)

	if got := r.Value(a); got != domain.SignalHigh {
		t.Errorf("source value = %v, want H", got)
	}
	if _, ok := r.Peer(a); ok {
		t.Error("source should be disconnected")
	}
}

func TestUnregister_ClearsPending(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	r.Click(a)
	r.Unregister(a)
	if _, ok := r.Pending(); ok {
		t.Error("pending must be cleared when its connector goes away")
	}
	mustVerify(t, r)
}

func TestClick_ConnectedPinReconnects(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	c := r.Register(domain.RoleSink)
	r.Push(a, domain.SignalHigh)
	sb, sc := &spy{}, &spy{}
	r.SetChangeCallback(b, sb.fn)
	r.SetChangeCallback(c, sc.fn)
	r.Click(a)
	r.Click(b)
	sb.calls = nil

	// Clicking a connected source drops its wire and makes it pending.
	r.Click(a)
	if len(sb.calls) != 1 || sb.calls[0] != domain.SignalUndefined {
		t.Fatalf("expected old sink reset once, got %v", sb.calls)
	}
	if p, _ := r.Pending(); p != a {
		t.Fatalf("expected %s pending, got %q", a, p)
	}
	if got := r.Value(a); got != domain.SignalHigh {
		t.Errorf("source value must survive disconnect, got %v", got)
	}

	r.Click(c)
	if len(sc.calls) != 1 || sc.calls[0] != domain.SignalHigh {
		t.Errorf("expected new sink to receive HIGH, got %v", sc.calls)
	}
	mustVerify(t, r)
}

func TestDisconnect_KeepsPending(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	c := r.Register(domain.RoleSink)
	r.Push(a, domain.SignalHigh)
	sb, sc := &spy{}, &spy{}
	r.SetChangeCallback(b, sb.fn)
	r.SetChangeCallback(c, sc.fn)
	r.Click(a)
	r.Click(b)
	r.Click(c)
	sb.calls = nil

	if !r.Disconnect(a) {
		t.Fatal("expected a wire to be removed")
	}
	if p, _ := r.Pending(); p != c {
		t.Errorf("expected %s still pending, got %q", c, p)
	}
	if len(sb.calls) != 1 || sb.calls[0] != domain.SignalUndefined {
		t.Errorf("expected old sink reset once, got %v", sb.calls)
	}
	if len(sc.calls) != 0 {
		t.Errorf("pending sink must not receive a value, got %v", sc.calls)
	}
	if r.Disconnect(a) || r.Disconnect("missing") {
		t.Error("unwired or unknown pins have nothing to drop")
	}
	mustVerify(t, r)
}

func TestClick_SameRolePairsWithoutSignal(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Role
	}{
		{"two sources", domain.RoleSource, domain.RoleSource},
		{"two sinks", domain.RoleSink, domain.RoleSink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := wiring.New()
			a := r.Register(tt.a)
			b := r.Register(tt.b)
			sa, sb := &spy{}, &spy{}
			r.SetChangeCallback(a, sa.fn)
			r.SetChangeCallback(b, sb.fn)
			r.Push(a, domain.SignalHigh)

			r.Click(a)
			r.Click(b)

			if p, _ := r.Peer(a); p != b {
				t.Fatalf("expected structural pairing, got peer %q", p)
			}
			if len(sa.calls)+len(sb.calls) != 0 {
				t.Errorf("no signal expected, got %v / %v", sa.calls, sb.calls)
			}
			mustVerify(t, r)
		})
	}
}

func TestClick_ClockModes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    domain.Mode
		connect bool
	}{
		{"normal-normal", domain.ModeNormal, domain.ModeNormal, true},
		{"clocksrc-clockdest", domain.ModeClockSrc, domain.ModeClockDest, true},
		{"clocksrc-normal", domain.ModeClockSrc, domain.ModeNormal, false},
		{"normal-clockdest", domain.ModeNormal, domain.ModeClockDest, true},
		{"clocksrc-clocksrc", domain.ModeClockSrc, domain.ModeClockSrc, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := wiring.New()
			a := r.Register(domain.RoleSource, wiring.WithMode(tt.a))
			b := r.Register(domain.RoleSink, wiring.WithMode(tt.b))
			r.Click(a)
			r.Click(b)
			_, connected := r.Peer(a)
			if connected != tt.connect {
				t.Errorf("connected = %v, want %v", connected, tt.connect)
			}
			if _, ok := r.Pending(); ok {
				t.Error("pending must be cleared either way")
			}
		})
	}
}

func TestOnChange_FiresOnTopologyOnly(t *testing.T) {
	r := wiring.New()
	count := 0
	cancel := r.OnChange(func() { count++ })

	a := r.Register(domain.RoleSource) // 1
	b := r.Register(domain.RoleSink)   // 2
	r.Click(a)                         // selection only
	r.Click(b)                         // 3
	r.Push(a, domain.SignalHigh)       // value only
	r.Click(a)                         // 4: disconnect, a pending
	r.Click(a)                         // toggle off
	r.Unregister(b)                    // 5

	if count != 5 {
		t.Errorf("expected 5 notifications, got %d", count)
	}
	cancel()
	r.Register(domain.RoleSink)
	if count != 5 {
		t.Errorf("cancelled listener fired")
	}
}

func TestData(t *testing.T) {
	r := wiring.New()
	id := r.Register(domain.RoleSource, wiring.WithMode(domain.ModeClockSrc), wiring.WithData(16))
	if got, _ := r.Data(id).(int); got != 16 {
		t.Errorf("data = %v, want 16", r.Data(id))
	}
	if m, _ := r.Mode(id); m != domain.ModeClockSrc {
		t.Errorf("mode = %v", m)
	}
}

func TestClose_InvalidatesIDs(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	r.Click(a)
	r.Click(b)
	r.Close()

	if r.Has(a) || r.Has(b) {
		t.Error("ids must be invalid after Close")
	}
	r.Click(a)
	r.Push(a, domain.SignalHigh)
	r.Unregister(b)
	if id := r.Register(domain.RoleSink); id != "" {
		t.Errorf("closed registry handed out id %q", id)
	}
}

func TestInvariants_RandomGestures(t *testing.T) {
	r := wiring.New()
	var ids []string
	for i := 0; i < 12; i++ {
		role := domain.RoleSink
		if i%3 == 0 {
			role = domain.RoleSource
		}
		ids = append(ids, r.Register(role))
	}
	// Deterministic pseudo-random walk over the gesture set.
	seed := uint32(7)
	next := func(n int) int {
		seed = seed*1664525 + 1013904223
		return int(seed>>16) % n
	}
	for step := 0; step < 2000; step++ {
		id := ids[next(len(ids))]
		switch next(5) {
		case 0, 1, 2:
			r.Click(id)
		case 3:
			r.Push(id, domain.Signal(next(3)))
		case 4:
			r.Unregister(id)
			ids[next(len(ids))] = r.Register(domain.Role(next(2)))
		}
		if err := r.Verify(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}

func TestScenario_EndToEnd(t *testing.T) {
	r := wiring.New()
	a := r.Register(domain.RoleSource)
	b := r.Register(domain.RoleSink)
	s := &spy{}
	r.SetChangeCallback(b, s.fn)

	r.Click(a)
	r.Click(b)
	// The source starts undefined, which is delivered on connect.
	s.calls = nil

	r.Push(a, domain.SignalHigh)
	if len(s.calls) != 1 || s.calls[0] != domain.SignalHigh {
		t.Fatalf("expected one HIGH, got %v", s.calls)
	}
	r.Unregister(a)
	if len(s.calls) != 2 || s.calls[1] != domain.SignalUndefined {
		t.Fatalf("expected one UNDEFINED after unregister, got %v", s.calls)
	}
}
