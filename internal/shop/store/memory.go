package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
)

// Memory keeps both collections in insertion-ordered slices with id
// lookup maps. Counter increment and insert share one critical section,
// so ids stay unique and monotonic under concurrent writers.
type Memory struct {
	mu          sync.RWMutex
	products    []shop.Product
	productByID map[string]int
	orders      []shop.Order
	orderByID   map[string]int
	productSeq  uint64
	orderSeq    uint64
}

func NewMemory() *Memory {
	return &Memory{
		productByID: make(map[string]int),
		orderByID:   make(map[string]int),
	}
}

func (m *Memory) InsertProduct(_ context.Context, p shop.Product) (shop.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.productSeq++
	p.ID = fmt.Sprintf("prod_%06d", m.productSeq)
	m.productByID[p.ID] = len(m.products)
	m.products = append(m.products, p)
	return p, nil
}

func (m *Memory) FindProductByID(_ context.Context, id string) (shop.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.productByID[id]
	if !ok {
		return shop.Product{}, shop.ErrProductNotFound
	}
	return m.products[idx], nil
}

func (m *Memory) FindProducts(_ context.Context, filter ProductFilter, page Page) ([]shop.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]shop.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.matches(p) {
			matched = append(matched, p)
		}
	}
	return paginate(matched, page), nil
}

func (m *Memory) InsertOrder(_ context.Context, o shop.Order) (shop.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orderSeq++
	o.ID = fmt.Sprintf("order_%06d", m.orderSeq)
	o.CreatedAt = time.Now().UTC()
	o.Products = append([]string(nil), o.Products...)
	m.orderByID[o.ID] = len(m.orders)
	m.orders = append(m.orders, o)
	return cloneOrder(o), nil
}

func (m *Memory) FindOrderByID(_ context.Context, id string) (shop.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.orderByID[id]
	if !ok {
		return shop.Order{}, shop.ErrOrderNotFound
	}
	return cloneOrder(m.orders[idx]), nil
}

func (m *Memory) FindOrdersByUser(_ context.Context, userID string, page Page) ([]shop.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]shop.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			matched = append(matched, cloneOrder(o))
		}
	}
	return paginate(matched, page), nil
}

func (m *Memory) Health() error {
	return nil
}

// cloneOrder copies the products slice so callers never alias the
// stored record.
func cloneOrder(o shop.Order) shop.Order {
	o.Products = append([]string(nil), o.Products...)
	return o
}
