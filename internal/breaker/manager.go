package breaker

import "log/slog"

// Manager owns one breaker per named external dependency.
type Manager struct {
	cfg      Config
	logger   *slog.Logger
	breakers map[string]*Breaker
}

// NewManager creates a manager that hands out breakers with shared defaults.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for a dependency, creating it on first use.
func (m *Manager) Get(name string) *Breaker {
	if b, ok := m.breakers[name]; ok {
		return b
	}
	b := New(name, m.cfg, m.logger)
	m.breakers[name] = b
	return b
}

// ResetAll closes every circuit. Operator override only.
func (m *Manager) ResetAll() {
	for _, b := range m.breakers {
		b.Reset()
	}
}

// Statuses returns a snapshot of every breaker, keyed by dependency name.
func (m *Manager) Statuses() map[string]Status {
	out := make(map[string]Status, len(m.breakers))
	for name, b := range m.breakers {
		out[name] = b.Status()
	}
	return out
}
