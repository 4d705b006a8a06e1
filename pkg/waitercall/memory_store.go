package waitercall

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryAdmissionStore is an in-memory AdmissionStore for tests and
// single-process deployments. The compare-and-set happens under the
// mutex, so the one-admission-per-window invariant holds within the
// process.
type MemoryAdmissionStore struct {
	mu            sync.Mutex
	lastAdmission map[uuid.UUID]time.Time
}

// NewMemoryAdmissionStore returns an empty in-memory admission store.
func NewMemoryAdmissionStore() *MemoryAdmissionStore {
	return &MemoryAdmissionStore{lastAdmission: make(map[uuid.UUID]time.Time)}
}

func (s *MemoryAdmissionStore) Admit(ctx context.Context, subjectID uuid.UUID, now time.Time, minInterval time.Duration) (Admission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastAdmission[subjectID]
	if !ok || now.Sub(last) >= minInterval {
		s.lastAdmission[subjectID] = now
		return Admission{Admitted: true}, nil
	}

	return Admission{
		Admitted:   false,
		RetryAfter: minInterval - now.Sub(last),
	}, nil
}

// MemoryTableStore is an in-memory TableStore for tests.
type MemoryTableStore struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]Table

	markErr error // injected failure for best-effort path tests
}

// NewMemoryTableStore returns an in-memory table store seeded with the
// given tables.
func NewMemoryTableStore(tables ...Table) *MemoryTableStore {
	s := &MemoryTableStore{tables: make(map[uuid.UUID]Table, len(tables))}
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	return s
}

// Put stores or replaces a table.
func (s *MemoryTableStore) Put(t Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

// FailMarkWith makes subsequent MarkNeedsService calls return err.
func (s *MemoryTableStore) FailMarkWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markErr = err
}

func (s *MemoryTableStore) Get(ctx context.Context, id uuid.UUID) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return Table{}, ErrTableNotFound
	}
	return t, nil
}

func (s *MemoryTableStore) MarkNeedsService(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.markErr != nil {
		return s.markErr
	}

	t, ok := s.tables[id]
	if !ok {
		return ErrTableNotFound
	}
	t.NeedsService = true
	s.tables[id] = t
	return nil
}

// MemoryRequestStore is an in-memory RequestStore for tests.
type MemoryRequestStore struct {
	mu       sync.Mutex
	requests []ServiceRequest

	createErr error
}

// NewMemoryRequestStore returns an empty in-memory request store.
func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{}
}

// FailCreateWith makes subsequent Create calls return err.
func (s *MemoryRequestStore) FailCreateWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErr = err
}

func (s *MemoryRequestStore) Create(ctx context.Context, req ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}
	s.requests = append(s.requests, req)
	return nil
}

// All returns a copy of the stored requests.
func (s *MemoryRequestStore) All() []ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ServiceRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
