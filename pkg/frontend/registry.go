package frontend

import (
	"fmt"
	"sync"
	"time"

	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/herlein/isdbfe/pkg/tuner"
)

// DefaultRegistry is used by New when Options.Registry is nil
var DefaultRegistry = NewRegistry()

type baseKey struct {
	bus  string
	addr uint8
}

// busLock serialises every transaction on one bus identity
type busLock struct {
	sync.Mutex
	refs int
}

// base is the context shared by all frontends attached to one
// demodulator: configuration, register client, chip drivers and the
// cold boot state
type base struct {
	key    baseKey
	cfg    Config
	refs   int
	bus    *busLock
	client *registers.Client
	demod  *demod.Demod
	tuner  *tuner.Tuner
	warm   bool
}

// Registry maps (bus identity, demodulator address) to shared base
// contexts with reference counting
type Registry struct {
	mu    sync.Mutex
	bases map[baseKey]*base
	buses map[string]*busLock
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		bases: make(map[baseKey]*base),
		buses: make(map[string]*busLock),
	}
}

// acquire joins the base for (busID, cfg.DemodAddr) or creates it.
// created reports whether this call made a new entry.
func (r *Registry) acquire(busID string, bus registers.Bus, cfg Config, sleep func(time.Duration)) (b *base, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := baseKey{bus: busID, addr: cfg.DemodAddr}
	if b, ok := r.bases[key]; ok {
		if b.cfg != cfg {
			return nil, false, fmt.Errorf("%w: %s 0x%02X", ErrAddressInUse, busID, cfg.DemodAddr)
		}
		b.refs++
		return b, false, nil
	}

	bl, ok := r.buses[busID]
	if !ok {
		bl = &busLock{}
		r.buses[busID] = bl
	}
	bl.refs++

	c := &registers.Client{Bus: bus, Sleep: sleep}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	slaves := cfg.Slaves()
	b = &base{
		key:    key,
		cfg:    cfg,
		refs:   1,
		bus:    bl,
		client: c,
		demod:  demod.New(c, slaves),
		tuner: tuner.New(c, tuner.Config{
			Addr:    slaves.Tuner,
			Crystal: cfg.TunerCrystal,
			Index:   cfg.TunerIndex,
		}),
	}
	r.bases[key] = b
	return b, true, nil
}

// release drops one reference; the last one deletes the entry and, with
// the last entry on its bus, the bus lock
func (r *Registry) release(b *base) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.refs--
	if b.refs > 0 {
		return
	}
	delete(r.bases, b.key)
	b.bus.refs--
	if b.bus.refs == 0 {
		delete(r.buses, b.key.bus)
	}
}

// Refs returns the reference count of the entry for (busID, addr), 0 if
// none exists
func (r *Registry) Refs(busID string, addr uint8) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bases[baseKey{bus: busID, addr: addr}]; ok {
		return b.refs
	}
	return 0
}

// Len returns the number of registered demodulators
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bases)
}
