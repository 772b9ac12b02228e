package db

import (
	"context"
	"sort"
	"strings"
	"sync"

	"foodapp/internal/models"
)

// MemoryStore is the backend's default store when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*models.Account
	byEmail map[string]string
	items   map[string][]models.FoodItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*models.Account),
		byEmail: make(map[string]string),
		items:   make(map[string][]models.FoodItem),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(a.Email)
	if _, exists := m.byEmail[email]; exists {
		return ErrDuplicate
	}
	cp := *a
	m.users[a.ID] = &cp
	m.byEmail[email] = a.ID
	return nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[a.ID]
	if !ok {
		return ErrNotFound
	}
	oldEmail := strings.ToLower(current.Email)
	newEmail := strings.ToLower(a.Email)
	if newEmail != oldEmail {
		if _, taken := m.byEmail[newEmail]; taken {
			return ErrDuplicate
		}
		delete(m.byEmail, oldEmail)
		m.byEmail[newEmail] = a.ID
	}
	current.Name = a.Name
	current.Email = a.Email
	current.UpdatedAt = a.UpdatedAt
	return nil
}

func (m *MemoryStore) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.SellerID] = append(m.items[item.SellerID], *item)
	return nil
}

func (m *MemoryStore) ListFoodItems(ctx context.Context, sellerID string) ([]models.FoodItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := append([]models.FoodItem{}, m.items[sellerID]...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
