package usecase

import (
	"context"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/invalidation"
)

// fakeStore is an in-memory Store that counts writes.
type fakeStore[T any] struct {
	mu      sync.Mutex
	records map[uuid.UUID]T
	idOf    func(T) uuid.UUID
	writes  int

	createErr error
	updateErr error
	deleteErr error
	getErr    error
}

func newFakeStore[T any](idOf func(T) uuid.UUID, seed ...T) *fakeStore[T] {
	s := &fakeStore[T]{records: map[uuid.UUID]T{}, idOf: idOf}
	for _, r := range seed {
		s.records[idOf(r)] = r
	}
	return s
}

func newCategoryStore(seed ...*content.Category) *fakeStore[*content.Category] {
	return newFakeStore(func(c *content.Category) uuid.UUID { return c.ID }, seed...)
}

func newTipStore(seed ...*content.Tip) *fakeStore[*content.Tip] {
	return newFakeStore(func(t *content.Tip) uuid.UUID { return t.ID }, seed...)
}

func newUserStore(seed ...*content.User) *fakeStore[*content.User] {
	return newFakeStore(func(u *content.User) uuid.UUID { return u.ID }, seed...)
}

func (s *fakeStore[T]) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.getErr != nil {
		return zero, s.getErr
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return zero, repository.NewRecordNotFound()
	}
	r, ok := s.records[parsed]
	if !ok {
		return zero, repository.NewRecordNotFound()
	}
	return r, nil
}

func (s *fakeStore[T]) Create(ctx context.Context, record T, criteria ...repository.InsertCriteria) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		var zero T
		return zero, s.createErr
	}
	s.writes++
	s.records[s.idOf(record)] = record
	return record, nil
}

func (s *fakeStore[T]) Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		var zero T
		return zero, s.updateErr
	}
	s.writes++
	s.records[s.idOf(record)] = record
	return record, nil
}

func (s *fakeStore[T]) Delete(ctx context.Context, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.writes++
	delete(s.records, s.idOf(record))
	return nil
}

func (s *fakeStore[T]) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// spyInvalidator records dispatched events and returns err for each of them.
type spyInvalidator struct {
	mu     sync.Mutex
	events []invalidation.Event
	err    error
}

func (s *spyInvalidator) Dispatch(ctx context.Context, ev invalidation.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *spyInvalidator) calls() []invalidation.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]invalidation.Event(nil), s.events...)
}
