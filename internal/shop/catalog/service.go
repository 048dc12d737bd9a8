// Package catalog implements the product operations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/store"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 1000
	maxSizeLen        = 50
)

type ProductStore interface {
	InsertProduct(ctx context.Context, p shop.Product) (shop.Product, error)
	FindProductByID(ctx context.Context, id string) (shop.Product, error)
	FindProducts(ctx context.Context, filter store.ProductFilter, page store.Page) ([]shop.Product, error)
}

type Publisher interface {
	Publish(ctx context.Context, event shop.Event) error
}

type Service struct {
	store     ProductStore
	publisher Publisher
	logger    *slog.Logger
	created   prometheus.Counter
}

func New(st ProductStore, publisher Publisher, logger *slog.Logger, created prometheus.Counter) *Service {
	return &Service{
		store:     st,
		publisher: publisher,
		logger:    logger,
		created:   created,
	}
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Size        string
}

func (in CreateProductInput) validate() error {
	switch {
	case in.Name == "":
		return shop.Invalid("name is required")
	case utf8.RuneCountInString(in.Name) > maxNameLen:
		return shop.Invalid("name must be at most %d characters", maxNameLen)
	case in.Description == "":
		return shop.Invalid("description is required")
	case utf8.RuneCountInString(in.Description) > maxDescriptionLen:
		return shop.Invalid("description must be at most %d characters", maxDescriptionLen)
	case in.Price <= 0:
		return shop.Invalid("price must be positive")
	case in.Size == "":
		return shop.Invalid("size is required")
	case utf8.RuneCountInString(in.Size) > maxSizeLen:
		return shop.Invalid("size must be at most %d characters", maxSizeLen)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (shop.Product, error) {
	if err := in.validate(); err != nil {
		return shop.Product{}, err
	}

	product, err := s.store.InsertProduct(ctx, shop.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       shop.Round(in.Price),
		Size:        in.Size,
	})
	if err != nil {
		return shop.Product{}, fmt.Errorf("store insert: %w", err)
	}

	if err := s.publisher.Publish(ctx, shop.Event{
		EventType: shop.EventProductCreated,
		EntityID:  product.ID,
		Name:      product.Name,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		s.logger.Error("publish product_created event failed",
			"product_id", product.ID,
			"error", err,
		)
	}

	s.created.Inc()
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, name, size string, limit, offset int) ([]shop.Product, error) {
	items, err := s.store.FindProducts(ctx,
		store.ProductFilter{Name: name, Size: size},
		store.Page{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, fmt.Errorf("store find: %w", err)
	}
	return items, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (shop.Product, error) {
	product, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		return shop.Product{}, err
	}
	return product, nil
}

// ValidateProductIDs reports nil iff every id resolves to a stored
// product. Used by order creation before any write happens.
func (s *Service) ValidateProductIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.store.FindProductByID(ctx, id); err != nil {
			if errors.Is(err, shop.ErrProductNotFound) {
				return shop.Invalid("product %s does not exist", id)
			}
			return fmt.Errorf("resolve product %s: %w", id, err)
		}
	}
	return nil
}
