package employee_test

import (
	"context"
	"sync"

	"employee-service/internal/employee"
)

// memRepo is an in-memory Repository with the same uniqueness and
// rows-affected semantics as the Postgres implementation. The mutex makes
// check-then-insert atomic per call, which is what the unique index gives
// the real repository.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]employee.Employee
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[int64]employee.Employee)}
}

func (m *memRepo) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.items {
		if existing.Email == e.Email {
			return nil, employee.ErrDuplicateEmail
		}
	}

	m.nextID++
	e.ID = m.nextID
	m.items[e.ID] = *e
	stored := *e
	return &stored, nil
}

func (m *memRepo) GetAll(ctx context.Context) ([]employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]employee.Employee, 0, len(m.items))
	for id := int64(1); id <= m.nextID; id++ {
		if e, ok := m.items[id]; ok {
			all = append(all, e)
		}
	}
	return all, nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	copied := e
	return &copied, nil
}

func (m *memRepo) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.items {
		if e.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Update(ctx context.Context, e *employee.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	for id, existing := range m.items {
		if existing.Email == e.Email && id != e.ID {
			return employee.ErrDuplicateEmail
		}
	}
	m.items[e.ID] = *e
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
