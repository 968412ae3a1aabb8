package chain

import (
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/phoenixkonsole/papara/consensus"
	"github.com/phoenixkonsole/papara/types"
	"go.uber.org/zap"
)

// A Subscriber is notified whenever a spork vote replaces the Manager's
// network snapshot. Implementations must not call back into the Manager's
// write methods.
type Subscriber interface {
	ProcessSporkUpdate(id SporkID, value uint64, prev, next *consensus.Network)
}

// A ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLog sets the logger used by the Manager.
func WithLog(log *zap.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// A Manager holds the current network snapshot and replaces it when a spork
// vote changes a reward parameter. Snapshots are immutable; readers load the
// current one without locking.
type Manager struct {
	base    *consensus.Network
	store   *SporkStore
	log     *zap.Logger
	network atomic.Pointer[consensus.Network]

	mu          sync.Mutex // serializes spork activation
	sporks      map[SporkID]uint64
	subscribers []Subscriber
}

// Network returns the current network snapshot. The returned value must not
// be modified.
func (m *Manager) Network() *consensus.Network {
	return m.network.Load()
}

// Base returns the network the Manager applies sporks to.
func (m *Manager) Base() *consensus.Network {
	return m.base
}

// Sporks returns the spork values currently in effect.
func (m *Manager) Sporks() map[SporkID]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.sporks)
}

// AddSubscriber subscribes s to m, ensuring that it will receive every
// subsequent snapshot change.
func (m *Manager) AddSubscriber(s Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, s)
}

// RemoveSubscriber unsubscribes s from m.
func (m *Manager) RemoveSubscriber(s Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.subscribers {
		if m.subscribers[i] == s {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return
		}
	}
}

// ActivateSpork applies a governance vote setting the spork id to value. The
// resulting snapshot is validated and the value persisted before the snapshot
// is swapped in; if either step fails, the current snapshot is unchanged.
func (m *Manager) ActivateSpork(id SporkID, value uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := maps.Clone(m.sporks)
	values[id] = value
	next, err := ApplySporks(m.base, values)
	if err != nil {
		m.log.Warn("rejected spork vote", zap.Stringer("spork", id), zap.Uint64("value", value), zap.Error(err))
		return fmt.Errorf("failed to activate %v: %w", id, err)
	} else if err := m.store.PutSpork(id, value); err != nil {
		m.log.Warn("failed to persist spork", zap.Stringer("spork", id), zap.Uint64("value", value), zap.Error(err))
		return fmt.Errorf("failed to activate %v: %w", id, err)
	}
	prev := m.network.Swap(next)
	m.sporks = values
	m.log.Info("activated spork",
		zap.Stringer("spork", id),
		zap.Uint64("value", value),
		zap.Stringer("network", next.ID()))

	for _, s := range m.subscribers {
		s.ProcessSporkUpdate(id, value, prev, next)
	}
	return nil
}

// NewSession returns a Session pinned to the current snapshot.
func (m *Manager) NewSession() *Session {
	return &Session{n: m.Network()}
}

// Close flushes the Manager's spork store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Close()
}

// NewManager returns a Manager for the base network, replaying any spork
// values previously stored in db.
func NewManager(base *consensus.Network, db DB, opts ...ManagerOption) (*Manager, error) {
	store, err := NewSporkStore(db, base)
	if err != nil {
		return nil, fmt.Errorf("failed to open spork store: %w", err)
	}
	values, err := store.Sporks()
	if err != nil {
		return nil, fmt.Errorf("failed to load sporks: %w", err)
	}
	n, err := ApplySporks(base, values)
	if err != nil {
		return nil, fmt.Errorf("failed to replay stored sporks: %w", err)
	}

	m := &Manager{
		base:   base,
		store:  store,
		log:    zap.NewNop(),
		sporks: values,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.network.Store(n)
	m.log.Debug("loaded network",
		zap.String("name", n.Name),
		zap.Int("sporks", len(values)),
		zap.Stringer("network", n.ID()))
	return m, nil
}

// A Session evaluates the reward schedule against a single network snapshot,
// so that a spork activating mid-validation cannot mix parameters from two
// snapshots.
type Session struct {
	n *consensus.Network
}

// Network returns the snapshot the session is pinned to.
func (s *Session) Network() *consensus.Network {
	return s.n
}

// BlockValue returns the subsidy of the block at height.
func (s *Session) BlockValue(height int64) (types.Currency, error) {
	return consensus.BlockValueAt(s.n, height)
}

// IsSuperblock reports whether height is a superblock.
func (s *Session) IsSuperblock(height int64) bool {
	return height >= 0 && consensus.IsSuperblock(s.n, uint64(height))
}

// Supply returns the total subsidy issued through height.
func (s *Session) Supply(height int64) (types.Currency, error) {
	h, err := consensus.CheckHeight(height)
	if err != nil {
		return types.ZeroCurrency, err
	}
	return consensus.Supply(s.n, h)
}

// ValidateCoinbase checks the coinbase outputs of the block at height.
func (s *Session) ValidateCoinbase(height int64, outputs []types.Currency, fees types.Currency) error {
	h, err := consensus.CheckHeight(height)
	if err != nil {
		return err
	}
	return consensus.ValidateCoinbase(s.n, h, outputs, fees)
}
