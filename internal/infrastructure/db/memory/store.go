// Package memory provides an in-memory implementation of every storefront
// store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/ports"
)

// Compile-time interface checks.
var (
	_ ports.AccountRepository = (*AccountStore)(nil)
	_ ports.ProductRepository = (*ProductStore)(nil)
	_ ports.SessionStore      = (*SessionStore)(nil)
)

// Store groups the in-memory account, product and session stores.
type Store struct {
	Accounts *AccountStore
	Products *ProductStore
	Sessions *SessionStore
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		Accounts: NewAccountStore(),
		Products: NewProductStore(),
		Sessions: NewSessionStore(),
	}
}

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Accounts
// ──────────────────────────────────────────────────

// AccountStore is a thread-safe account repository. Username uniqueness is
// checked and claimed under the same write lock.
type AccountStore struct {
	mu        sync.RWMutex
	byID      map[int64]*domain.Account
	usernames map[string]int64
	nextID    int64
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:      make(map[int64]*domain.Account),
		usernames: make(map[string]int64),
	}
}

func (s *AccountStore) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernames[a.Username]; taken {
		return nil, domain.ErrDuplicateUsername
	}
	s.nextID++
	stored := *a
	stored.ID = s.nextID
	s.byID[stored.ID] = &stored
	s.usernames[stored.Username] = stored.ID
	out := stored
	return &out, nil
}

func (s *AccountStore) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[username]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", username, domain.ErrNotFound)
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *AccountStore) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	out := *a
	return &out, nil
}

// ──────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────

type ProductStore struct {
	mu     sync.RWMutex
	byID   map[int64]*domain.Product
	nextID int64
}

func NewProductStore() *ProductStore {
	return &ProductStore{byID: make(map[int64]*domain.Product)}
}

func (s *ProductStore) List(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ProductStore) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (s *ProductStore) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := copyProduct(p)
	stored.ID = s.nextID
	s.byID[stored.ID] = stored
	return copyProduct(stored), nil
}

func (s *ProductStore) Update(_ context.Context, id int64, f domain.ProductFields) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	p.Apply(f)
	p.UpdatedAt = time.Now().UTC()
	return copyProduct(p), nil
}

func (s *ProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

func copyProduct(p *domain.Product) *domain.Product {
	out := *p
	if p.CreatedBy != nil {
		id := *p.CreatedBy
		out.CreatedBy = &id
	}
	return &out
}

// ──────────────────────────────────────────────────
// Sessions
// ──────────────────────────────────────────────────

type session struct {
	accountID int64
	expiresAt time.Time
}

// SessionStore maps random session ids to account ids. Expired entries are
// dropped lazily on lookup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session), now: time.Now}
}

func (s *SessionStore) Create(_ context.Context, accountID int64, ttl time.Duration) (string, error) {
	sid := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = session{accountID: accountID, expiresAt: s.now().Add(ttl)}
	return sid, nil
}

func (s *SessionStore) Resolve(_ context.Context, sid string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return 0, fmt.Errorf("session: %w", domain.ErrNotFound)
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sid)
		return 0, fmt.Errorf("session expired: %w", domain.ErrNotFound)
	}
	return sess.accountID, nil
}

func (s *SessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
