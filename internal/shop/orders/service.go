// Package orders implements the order operations.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/store"
)

const maxUserIDLen = 100

type OrderStore interface {
	InsertOrder(ctx context.Context, o shop.Order) (shop.Order, error)
	FindOrderByID(ctx context.Context, id string) (shop.Order, error)
	FindOrdersByUser(ctx context.Context, userID string, page store.Page) ([]shop.Order, error)
}

// ProductChecker resolves the referenced product ids; implemented by
// the catalog service.
type ProductChecker interface {
	ValidateProductIDs(ctx context.Context, ids []string) error
}

type Publisher interface {
	Publish(ctx context.Context, event shop.Event) error
}

type Service struct {
	store     OrderStore
	products  ProductChecker
	publisher Publisher
	logger    *slog.Logger
	created   prometheus.Counter
}

func New(st OrderStore, products ProductChecker, publisher Publisher, logger *slog.Logger, created prometheus.Counter) *Service {
	return &Service{
		store:     st,
		products:  products,
		publisher: publisher,
		logger:    logger,
		created:   created,
	}
}

type CreateOrderInput struct {
	UserID   string
	Products []string
	Total    float64
}

func (in CreateOrderInput) validate() error {
	switch {
	case in.UserID == "":
		return shop.Invalid("user_id is required")
	case utf8.RuneCountInString(in.UserID) > maxUserIDLen:
		return shop.Invalid("user_id must be at most %d characters", maxUserIDLen)
	case len(in.Products) == 0:
		return shop.Invalid("at least one product is required")
	case in.Total <= 0:
		return shop.Invalid("total must be positive")
	}
	return nil
}

// CreateOrder checks that every referenced product exists before the
// order is written; an unknown id is a client input error and nothing
// is stored. Total is trusted as supplied, never recomputed from
// catalog prices.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (shop.Order, error) {
	if err := in.validate(); err != nil {
		return shop.Order{}, err
	}
	if err := s.products.ValidateProductIDs(ctx, in.Products); err != nil {
		return shop.Order{}, err
	}

	order, err := s.store.InsertOrder(ctx, shop.Order{
		UserID:   in.UserID,
		Products: in.Products,
		Total:    shop.Round(in.Total),
	})
	if err != nil {
		return shop.Order{}, fmt.Errorf("store insert: %w", err)
	}

	if err := s.publisher.Publish(ctx, shop.Event{
		EventType: shop.EventOrderCreated,
		EntityID:  order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		s.logger.Error("publish order_created event failed",
			"order_id", order.ID,
			"error", err,
		)
	}

	s.created.Inc()
	return order, nil
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]shop.Order, error) {
	items, err := s.store.FindOrdersByUser(ctx, userID, store.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("store find: %w", err)
	}
	return items, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (shop.Order, error) {
	order, err := s.store.FindOrderByID(ctx, id)
	if err != nil {
		return shop.Order{}, err
	}
	return order, nil
}
