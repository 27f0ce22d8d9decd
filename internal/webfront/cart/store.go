package cart

import (
	"log/slog"
	"sync"
	"time"

	"github.com/veriport/webfront/pkg/idx"
)

// DefaultTTL is how long an untouched cart survives before the janitor
// sweeps it.
const DefaultTTL = 4 * time.Hour

// entry pairs a cart with its last-touched time for expiry.
type entry struct {
	cart    *Cart
	touched time.Time
}

// Store keeps the live carts keyed by cart session ID. Idle carts are
// swept by a background janitor so abandoned sessions don't accumulate.
type Store struct {
	logger *slog.Logger
	ttl    time.Duration

	mu      sync.Mutex
	entries map[idx.ID]*entry

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewStore creates a cart store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(logger *slog.Logger, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		logger:  logger,
		ttl:     ttl,
		entries: make(map[idx.ID]*entry),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Create allocates a new empty cart and returns its session ID.
func (s *Store) Create() (idx.ID, *Cart) {
	id := idx.New()
	c := New()

	s.mu.Lock()
	s.entries[id] = &entry{cart: c, touched: time.Now()}
	s.mu.Unlock()

	return id, c
}

// Get returns the cart for a session ID and refreshes its idle timer.
func (s *Store) Get(id idx.ID) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}

	e.touched = time.Now()
	return e.cart, true
}

// Drop removes a cart, e.g. on logout or after checkout.
func (s *Store) Drop(id idx.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live carts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor begins the background sweep of idle carts. Non-blocking;
// call StopJanitor to shut it down.
func (s *Store) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	go s.run(interval)
	s.logger.Info("cart janitor started", "interval", interval, "ttl", s.ttl)
}

// StopJanitor shuts down the background sweep. Blocks until the worker
// finishes any in-progress sweep.
func (s *Store) StopJanitor() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("cart janitor stopped")
}

// run is the janitor worker loop.
func (s *Store) run(interval time.Duration) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep drops carts that have been idle longer than the TTL.
func (s *Store) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var swept int
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			swept++
		}
	}
	remaining := len(s.entries)
	s.mu.Unlock()

	if swept > 0 {
		s.logger.Debug("swept idle carts", "swept", swept, "remaining", remaining)
	}
}
