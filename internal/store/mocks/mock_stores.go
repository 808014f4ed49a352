// Package mocks holds in-memory store implementations for tests.
package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/payment"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/store"
)

// MockProductStore is an in-memory ProductStore.
type MockProductStore struct {
	mu       sync.RWMutex
	products map[string]product.Product

	ListErr     error
	SearchCalls int
}

func NewMockProductStore(seed ...product.Product) *MockProductStore {
	m := &MockProductStore{products: make(map[string]product.Product)}
	for _, p := range seed {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockProductStore) ListAll(ctx context.Context) ([]product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]product.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductStore) Search(ctx context.Context, name string) ([]product.Product, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()

	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]product.Product, 0, len(all))
	for _, p := range all {
		if containsFold(p.Name, name) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockProductStore) GetByID(ctx context.Context, id string) (*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockProductStore) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *MockProductStore) Update(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.products)), nil
}

// MockOrderStore is an in-memory OrderStore recording Create calls.
type MockOrderStore struct {
	mu     sync.RWMutex
	orders map[string]order.Order

	CreateCalls int
	CreateErr   error
}

func NewMockOrderStore(seed ...order.Order) *MockOrderStore {
	m := &MockOrderStore{orders: make(map[string]order.Order)}
	for _, o := range seed {
		m.orders[o.ID] = o
	}
	return m
}

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MockOrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return &o, nil
}

func (m *MockOrderStore) GetByUser(ctx context.Context, userID string) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]order.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderStore) GetAll(ctx context.Context) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *MockOrderStore) ListSince(ctx context.Context, cutoff time.Time) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]order.Order, 0)
	for _, o := range m.orders {
		if !o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	if o.Status == status {
		return nil
	}
	if !o.CanTransitionTo(status) {
		return o.TransitionError(status)
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *MockOrderStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.orders)), nil
}

// MockUserStore is an in-memory UserStore.
type MockUserStore struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewMockUserStore(seed ...user.User) *MockUserStore {
	m := &MockUserStore{users: make(map[string]user.User)}
	for _, u := range seed {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserStore) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateKey
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserStore) List(ctx context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MockUserStore) UpdateRole(ctx context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	m.users[id] = u
	return nil
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// MockIntentStore is an in-memory IntentStore recording status changes.
type MockIntentStore struct {
	mu      sync.RWMutex
	intents map[string]payment.Intent

	CreateCalls []payment.Intent
	CreateErr   error
}

func NewMockIntentStore() *MockIntentStore {
	return &MockIntentStore{intents: make(map[string]payment.Intent)}
}

func (m *MockIntentStore) Create(ctx context.Context, in *payment.Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, *in)
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.intents[in.ID] = *in
	return nil
}

func (m *MockIntentStore) GetByID(ctx context.Context, id string) (*payment.Intent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.intents[id]
	if !ok {
		return nil, store.ErrIntentNotFound
	}
	return &in, nil
}

func (m *MockIntentStore) MarkConfirmed(ctx context.Context, id, checkoutRequestID string) error {
	return m.update(id, func(in *payment.Intent) {
		in.Status = payment.IntentConfirmed
		in.CheckoutRequestID = checkoutRequestID
	})
}

func (m *MockIntentStore) MarkFailed(ctx context.Context, id, reason string) error {
	return m.update(id, func(in *payment.Intent) {
		in.Status = payment.IntentFailed
		in.FailureReason = reason
	})
}

func (m *MockIntentStore) MarkCompleted(ctx context.Context, id, orderID string) error {
	return m.update(id, func(in *payment.Intent) {
		in.Status = payment.IntentCompleted
		in.OrderID = orderID
	})
}

func (m *MockIntentStore) update(id string, fn func(*payment.Intent)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.intents[id]
	if !ok {
		return store.ErrIntentNotFound
	}
	fn(&in)
	in.UpdatedAt = time.Now()
	m.intents[id] = in
	return nil
}

func (m *MockIntentStore) ListOrphaned(ctx context.Context, cutoff time.Time) ([]payment.Intent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]payment.Intent, 0)
	for _, in := range m.intents {
		if in.Status == payment.IntentConfirmed && in.OrderID == "" && in.UpdatedAt.Before(cutoff) {
			out = append(out, in)
		}
	}
	return out, nil
}

// MockMessageStore is an in-memory MessageStore.
type MockMessageStore struct {
	mu       sync.RWMutex
	Messages []store.Message
}

func NewMockMessageStore() *MockMessageStore {
	return &MockMessageStore{}
}

func (m *MockMessageStore) Add(ctx context.Context, msg *store.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, *msg)
	return nil
}

func (m *MockMessageStore) List(ctx context.Context) ([]store.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.Message, len(m.Messages))
	copy(out, m.Messages)
	return out, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
