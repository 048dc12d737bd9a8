package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
)

const (
	productsFile = "products.json"
	ordersFile   = "orders.json"
)

// productRecord is the persisted shape: the wire fields plus a
// created_at stamp that is not serialized to API clients.
type productRecord struct {
	shop.Product
	CreatedAt time.Time `json:"created_at"`
}

// File persists each collection as a single JSON array, rewritten
// wholesale on every mutation. There is no crash consistency and no
// cross-process locking; it serves single-process deployments that want
// state to survive restarts.
type File struct {
	mu         sync.RWMutex
	dir        string
	products   []productRecord
	orders     []shop.Order
	productSeq uint64
	orderSeq   uint64
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dir, err)
	}

	f := &File{dir: dir}
	if err := loadCollection(filepath.Join(dir, productsFile), &f.products); err != nil {
		return nil, err
	}
	if err := loadCollection(filepath.Join(dir, ordersFile), &f.orders); err != nil {
		return nil, err
	}

	for _, p := range f.products {
		f.productSeq = max(f.productSeq, idCounter(p.ID))
	}
	for _, o := range f.orders {
		f.orderSeq = max(f.orderSeq, idCounter(o.ID))
	}
	return f, nil
}

func (f *File) InsertProduct(_ context.Context, p shop.Product) (shop.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// The counter advances even when the write below fails: ids are
	// never reused.
	f.productSeq++
	p.ID = fmt.Sprintf("prod_%06d", f.productSeq)
	f.products = append(f.products, productRecord{Product: p, CreatedAt: time.Now().UTC()})

	if err := writeCollection(filepath.Join(f.dir, productsFile), f.products); err != nil {
		f.products = f.products[:len(f.products)-1]
		return shop.Product{}, err
	}
	return p, nil
}

func (f *File) FindProductByID(_ context.Context, id string) (shop.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, rec := range f.products {
		if rec.ID == id {
			return rec.Product, nil
		}
	}
	return shop.Product{}, shop.ErrProductNotFound
}

func (f *File) FindProducts(_ context.Context, filter ProductFilter, page Page) ([]shop.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	matched := make([]shop.Product, 0, len(f.products))
	for _, rec := range f.products {
		if filter.matches(rec.Product) {
			matched = append(matched, rec.Product)
		}
	}
	return paginate(matched, page), nil
}

func (f *File) InsertOrder(_ context.Context, o shop.Order) (shop.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.orderSeq++
	o.ID = fmt.Sprintf("order_%06d", f.orderSeq)
	o.CreatedAt = time.Now().UTC()
	o.Products = append([]string(nil), o.Products...)
	f.orders = append(f.orders, o)

	if err := writeCollection(filepath.Join(f.dir, ordersFile), f.orders); err != nil {
		f.orders = f.orders[:len(f.orders)-1]
		return shop.Order{}, err
	}
	return cloneOrder(o), nil
}

func (f *File) FindOrderByID(_ context.Context, id string) (shop.Order, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, o := range f.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return shop.Order{}, shop.ErrOrderNotFound
}

func (f *File) FindOrdersByUser(_ context.Context, userID string, page Page) ([]shop.Order, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	matched := make([]shop.Order, 0)
	for _, o := range f.orders {
		if o.UserID == userID {
			matched = append(matched, cloneOrder(o))
		}
	}
	return paginate(matched, page), nil
}

func (f *File) Health() error {
	_, err := os.Stat(f.dir)
	return err
}

func loadCollection[T any](path string, into *[]T) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeCollection[T any](path string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// idCounter parses the numeric suffix of a generated id so counters
// stay monotonic across restarts.
func idCounter(id string) uint64 {
	_, suffix, ok := strings.Cut(id, "_")
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
