package main

import "sync"

type User struct {
	ID       string
	Password string
	Name     string
	Email    string
}

// UserRepository stores accounts. Implementations must be safe for
// concurrent use since every connection runs in its own goroutine.
type UserRepository interface {
	Add(user User)
	FindByID(id string) (User, bool)
}

// MemoryUserRepository keeps users in a map for the life of the process.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]User)}
}

// Add stores user, replacing any user with the same ID.
func (m *MemoryUserRepository) Add(user User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MemoryUserRepository) FindByID(id string) (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}
