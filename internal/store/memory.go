package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/toumakido/my-claude/todoapi/internal/model"
)

var (
	// ErrNotFound is returned when no todo exists for the requested id.
	ErrNotFound = errors.New("todo not found")
)

// Store defines the operations the HTTP handlers need from todo storage.
type Store interface {
	// List returns every todo ordered by ascending id.
	List(ctx context.Context) ([]model.Todo, error)

	// Get returns a todo by id.
	// Returns ErrNotFound if the todo does not exist.
	Get(ctx context.Context, id int) (model.Todo, error)

	// Create stores a new incomplete todo and returns it with its assigned id.
	Create(ctx context.Context, name string) (model.Todo, error)

	// SetCompleted changes only the completion flag of a todo.
	// Returns ErrNotFound if the todo does not exist.
	SetCompleted(ctx context.Context, id int, isComplete bool) (model.Todo, error)

	// Delete removes a todo by id.
	// Returns ErrNotFound if the todo does not exist.
	Delete(ctx context.Context, id int) error
}

// MemoryStore is an in-memory implementation of Store. Ids come from a
// monotonic counter and are never reused after a delete.
type MemoryStore struct {
	mu     sync.RWMutex
	todos  map[int]model.Todo
	nextID int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos:  make(map[int]model.Todo),
		nextID: 1,
	}
}

// List returns all todos
func (s *MemoryStore) List(_ context.Context) ([]model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]model.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		todos = append(todos, todo)
	}
	slices.SortFunc(todos, func(a, b model.Todo) int { return cmp.Compare(a.ID, b.ID) })
	return todos, nil
}

// Get returns a todo by ID
func (s *MemoryStore) Get(_ context.Context, id int) (model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	return todo, nil
}

// Create creates a new todo
func (s *MemoryStore) Create(_ context.Context, name string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo := model.Todo{
		ID:         s.nextID,
		Name:       name,
		IsComplete: false,
	}
	s.todos[todo.ID] = todo
	s.nextID++
	return todo, nil
}

// SetCompleted updates the completion flag of an existing todo
func (s *MemoryStore) SetCompleted(_ context.Context, id int, isComplete bool) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}

	todo.IsComplete = isComplete
	s.todos[id] = todo
	return todo, nil
}

// Delete deletes a todo by ID
func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}
