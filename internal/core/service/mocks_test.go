package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// mockInventoryRepo is an in-memory InventoryRepository guarded by a mutex so
// concurrency tests exercise the same serialization the SQL adapter provides
// with row locks.
type mockInventoryRepo struct {
	mu         sync.Mutex
	items      map[string]*domain.InventoryItem
	sales      []domain.Sale
	events     []domain.OutboxEvent
	nextSaleID int64
	nextItemID int64

	// transientFailures makes the next N RecordSale calls fail retryably.
	transientFailures int
	attempts          int
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{items: make(map[string]*domain.InventoryItem)}
}

func (m *mockInventoryRepo) addItem(name string, stock int) {
	m.nextItemID++
	m.items[name] = &domain.InventoryItem{
		ID:              m.nextItemID,
		ProductName:     name,
		SKU:             fmt.Sprintf("SKU-%d", m.nextItemID),
		QuantityInStock: stock,
		DateAdded:       time.Now(),
	}
}

func (m *mockInventoryRepo) RecordSale(ctx context.Context, sale domain.Sale, event domain.OutboxEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.transientFailures > 0 {
		m.transientFailures--
		return 0, fmt.Errorf("record sale: %w", domain.ErrRetryable)
	}

	item, ok := m.items[sale.ProductName]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if item.QuantityInStock < sale.Quantity {
		return 0, domain.ErrInsufficientStock
	}

	item.QuantityInStock -= sale.Quantity
	m.nextSaleID++
	sale.ID = m.nextSaleID
	sale.ProductID = item.ID
	sale.SaleDate = time.Now()
	m.sales = append(m.sales, sale)
	m.events = append(m.events, event)
	return sale.ID, nil
}

func (m *mockInventoryRepo) GetItemByName(ctx context.Context, productName string) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[productName]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockInventoryRepo) GetItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.SKU == sku {
			copied := *item
			return &copied, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockInventoryRepo) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.InventoryItem
	for _, item := range m.items {
		items = append(items, *item)
	}
	return items, nil
}

func (m *mockInventoryRepo) AddItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextItemID++
	item.ID = m.nextItemID
	item.DateAdded = time.Now()
	m.items[item.ProductName] = &item
	return item.ID, nil
}

func (m *mockInventoryRepo) SetQuantity(ctx context.Context, productName string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[productName]
	if !ok {
		return domain.ErrProductNotFound
	}
	item.QuantityInStock = quantity
	now := time.Now()
	item.LastRestocked = &now
	return nil
}

func (m *mockInventoryRepo) UpdateItem(ctx context.Context, updated domain.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[updated.ProductName]
	if !ok {
		return domain.ErrProductNotFound
	}
	item.SKU = updated.SKU
	item.QuantityInStock = updated.QuantityInStock
	item.Price = updated.Price
	item.Description = updated.Description
	return nil
}

func (m *mockInventoryRepo) DeleteItem(ctx context.Context, productName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[productName]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.items, productName)
	return nil
}

func (m *mockInventoryRepo) ItemsBelowThreshold(ctx context.Context, threshold int) ([]domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.InventoryItem
	for _, item := range m.items {
		if item.QuantityInStock < threshold {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *mockInventoryRepo) stockOf(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[name]; ok {
		return item.QuantityInStock
	}
	return -1
}

// mockIdempotencyStore is an in-memory IdempotencyStore.
type mockIdempotencyStore struct {
	mu     sync.Mutex
	claims map[string]bool
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{claims: make(map[string]bool)}
}

func (m *mockIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims[key] {
		return false, nil
	}
	m.claims[key] = true
	return true, nil
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, key)
	return nil
}

func (m *mockIdempotencyStore) held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims[key]
}

// mockNotificationRepo is an in-memory NotificationRepository.
type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	nextID        int64
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Append(ctx context.Context, adminID int64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.notifications = append(m.notifications, domain.Notification{
		ID:        m.nextID,
		AdminID:   adminID,
		Message:   message,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockNotificationRepo) List(ctx context.Context, adminID int64) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].AdminID == adminID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, notificationID, adminID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == notificationID && m.notifications[i].AdminID == adminID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, adminID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].AdminID == adminID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) byID(id int64) *domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			copied := m.notifications[i]
			return &copied
		}
	}
	return nil
}

// mockAdminRepo is an in-memory AdminRepository.
type mockAdminRepo struct {
	mu     sync.Mutex
	admins map[int64]*domain.Admin
	tokens map[string]domain.PasswordResetToken
	nextID int64
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{
		admins: make(map[int64]*domain.Admin),
		tokens: make(map[string]domain.PasswordResetToken),
	}
}

func (m *mockAdminRepo) addAdmin(username, email, passwordHash, role string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.admins[m.nextID] = &domain.Admin{
		ID:           m.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	return m.nextID
}

func (m *mockAdminRepo) GetByLogin(ctx context.Context, emailOrUsername string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == emailOrUsername || a.Username == emailOrUsername {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (m *mockAdminRepo) GetByID(ctx context.Context, adminID int64) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[adminID]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockAdminRepo) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Admin
	for _, a := range m.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAdminRepo) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminRepo) UpdateUsername(ctx context.Context, adminID int64, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[adminID]
	if !ok {
		return domain.ErrAdminNotFound
	}
	a.Username = username
	return nil
}

func (m *mockAdminRepo) UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[adminID]
	if !ok {
		return domain.ErrAdminNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (m *mockAdminRepo) CreateResetToken(ctx context.Context, adminID int64, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = domain.PasswordResetToken{AdminID: adminID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (m *mockAdminRepo) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok || time.Now().After(t.ExpiresAt) {
		return 0, domain.ErrInvalidResetToken
	}
	delete(m.tokens, token)
	return t.AdminID, nil
}

func (m *mockAdminRepo) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for k, t := range m.tokens {
		if time.Now().After(t.ExpiresAt) {
			delete(m.tokens, k)
			purged++
		}
	}
	return purged, nil
}

func (m *mockAdminRepo) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.tokens {
		return k
	}
	return ""
}
