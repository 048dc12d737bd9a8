// Package store holds the product and order collections behind a common
// interface with in-memory, flat-file and postgres implementations.
package store

import (
	"context"
	"strings"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
)

// ProductFilter predicates are combined with AND; a zero value matches
// everything. Name is a case-insensitive substring match, Size an exact
// case-sensitive match.
type ProductFilter struct {
	Name string
	Size string
}

// Page applies after filtering. Limit <= 0 means unbounded.
type Page struct {
	Limit  int
	Offset int
}

type Store interface {
	// InsertProduct assigns a fresh id and stores the record. The id is
	// "prod_" plus a 6-digit zero-padded counter starting at 1.
	InsertProduct(ctx context.Context, p shop.Product) (shop.Product, error)
	FindProductByID(ctx context.Context, id string) (shop.Product, error)
	// FindProducts returns matching products in insertion order.
	FindProducts(ctx context.Context, filter ProductFilter, page Page) ([]shop.Product, error)

	// InsertOrder assigns a fresh "order_" id, stamps CreatedAt and
	// stores the record.
	InsertOrder(ctx context.Context, o shop.Order) (shop.Order, error)
	FindOrderByID(ctx context.Context, id string) (shop.Order, error)
	FindOrdersByUser(ctx context.Context, userID string, page Page) ([]shop.Order, error)

	Health() error
}

func (f ProductFilter) matches(p shop.Product) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Size != "" && p.Size != f.Size {
		return false
	}
	return true
}

func paginate[T any](items []T, page Page) []T {
	if page.Offset < 0 {
		page.Offset = 0
	}
	if page.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	out := make([]T, end-page.Offset)
	copy(out, items[page.Offset:end])
	return out
}
