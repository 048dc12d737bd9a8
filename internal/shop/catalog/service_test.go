package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/store"
)

type mockStore struct {
	insertFn func(ctx context.Context, p shop.Product) (shop.Product, error)
	findFn   func(ctx context.Context, id string) (shop.Product, error)
	listFn   func(ctx context.Context, filter store.ProductFilter, page store.Page) ([]shop.Product, error)
}

func (m *mockStore) InsertProduct(ctx context.Context, p shop.Product) (shop.Product, error) {
	return m.insertFn(ctx, p)
}
func (m *mockStore) FindProductByID(ctx context.Context, id string) (shop.Product, error) {
	return m.findFn(ctx, id)
}
func (m *mockStore) FindProducts(ctx context.Context, filter store.ProductFilter, page store.Page) ([]shop.Product, error) {
	return m.listFn(ctx, filter, page)
}

type mockPublisher struct {
	events []shop.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event shop.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func newTestService(st ProductStore, pub Publisher) *Service {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return New(st, pub, logger, prometheus.NewCounter(prometheus.CounterOpts{Name: "t_products_created", Help: "t"}))
}

func defaultStore() *mockStore {
	return &mockStore{
		insertFn: func(_ context.Context, p shop.Product) (shop.Product, error) {
			p.ID = "prod_000001"
			return p, nil
		},
		findFn: func(_ context.Context, _ string) (shop.Product, error) {
			return shop.Product{}, shop.ErrProductNotFound
		},
		listFn: func(_ context.Context, _ store.ProductFilter, _ store.Page) ([]shop.Product, error) {
			return []shop.Product{}, nil
		},
	}
}

func TestCreateProduct(t *testing.T) {
	errDB := errors.New("db down")

	tests := []struct {
		name       string
		input      CreateProductInput
		storeErr   error
		wantErrMsg string
		wantDBErr  bool
		wantPrice  float64
	}{
		{
			name:      "success",
			input:     CreateProductInput{Name: "iPhone 14", Description: "A16 Bionic", Price: 999.99, Size: "large"},
			wantPrice: 999.99,
		},
		{
			name:      "price is rounded to 2 decimals",
			input:     CreateProductInput{Name: "iPhone 14", Description: "A16 Bionic", Price: 999.999, Size: "large"},
			wantPrice: 1000,
		},
		{
			name:       "missing name",
			input:      CreateProductInput{Description: "d", Price: 1, Size: "s"},
			wantErrMsg: "name is required",
		},
		{
			name:       "name too long",
			input:      CreateProductInput{Name: strings.Repeat("a", 201), Description: "d", Price: 1, Size: "s"},
			wantErrMsg: "name must be at most 200 characters",
		},
		{
			name:       "missing description",
			input:      CreateProductInput{Name: "n", Price: 1, Size: "s"},
			wantErrMsg: "description is required",
		},
		{
			name:       "description too long",
			input:      CreateProductInput{Name: "n", Description: strings.Repeat("a", 1001), Price: 1, Size: "s"},
			wantErrMsg: "description must be at most 1000 characters",
		},
		{
			name:       "zero price",
			input:      CreateProductInput{Name: "n", Description: "d", Size: "s"},
			wantErrMsg: "price must be positive",
		},
		{
			name:       "negative price",
			input:      CreateProductInput{Name: "n", Description: "d", Price: -1, Size: "s"},
			wantErrMsg: "price must be positive",
		},
		{
			name:       "missing size",
			input:      CreateProductInput{Name: "n", Description: "d", Price: 1},
			wantErrMsg: "size is required",
		},
		{
			name:       "size too long",
			input:      CreateProductInput{Name: "n", Description: "d", Price: 1, Size: strings.Repeat("a", 51)},
			wantErrMsg: "size must be at most 50 characters",
		},
		{
			name:      "store error is wrapped",
			input:     CreateProductInput{Name: "n", Description: "d", Price: 1, Size: "s"},
			storeErr:  errDB,
			wantDBErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := defaultStore()
			if tt.storeErr != nil {
				st.insertFn = func(_ context.Context, _ shop.Product) (shop.Product, error) {
					return shop.Product{}, tt.storeErr
				}
			}
			pub := &mockPublisher{}
			svc := newTestService(st, pub)

			product, err := svc.CreateProduct(context.Background(), tt.input)

			if tt.wantErrMsg != "" {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !shop.IsValidation(err) {
					t.Fatalf("want validation error, got %v", err)
				}
				if err.Error() != tt.wantErrMsg {
					t.Fatalf("want %q, got %q", tt.wantErrMsg, err.Error())
				}
				if len(pub.events) != 0 {
					t.Fatalf("no event expected on validation failure, got %v", pub.events)
				}
				return
			}

			if tt.wantDBErr {
				if !errors.Is(err, errDB) {
					t.Fatalf("want error wrapping %v, got %v", errDB, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product.Price != tt.wantPrice {
				t.Fatalf("want price %v, got %v", tt.wantPrice, product.Price)
			}
			if product.Name != tt.input.Name || product.Description != tt.input.Description || product.Size != tt.input.Size {
				t.Fatalf("fields changed on the way through: %+v", product)
			}
			if len(pub.events) != 1 || pub.events[0].EventType != shop.EventProductCreated {
				t.Fatalf("want product_created event, got %v", pub.events)
			}
			if pub.events[0].EntityID != product.ID {
				t.Fatalf("want event for %s, got %s", product.ID, pub.events[0].EntityID)
			}
		})
	}
}

func TestCreateProduct_PublishFail_StillReturnsProduct(t *testing.T) {
	st := defaultStore()
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newTestService(st, pub)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "Widget", Description: "d", Price: 1, Size: "s"})
	if err != nil {
		t.Fatalf("expected no error despite publish failure, got: %v", err)
	}
	if product.Name != "Widget" {
		t.Fatalf("want name Widget, got %q", product.Name)
	}
}

func TestListProducts(t *testing.T) {
	st := defaultStore()
	st.listFn = func(_ context.Context, filter store.ProductFilter, page store.Page) ([]shop.Product, error) {
		if filter.Name != "phone" || filter.Size != "large" {
			t.Fatalf("filter not passed through: %+v", filter)
		}
		if page.Limit != 10 || page.Offset != 5 {
			t.Fatalf("page not passed through: %+v", page)
		}
		return []shop.Product{{ID: "prod_000001"}}, nil
	}
	svc := newTestService(st, &mockPublisher{})

	items, err := svc.ListProducts(context.Background(), "phone", "large", 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
}

func TestGetProduct(t *testing.T) {
	st := defaultStore()
	st.findFn = func(_ context.Context, id string) (shop.Product, error) {
		if id == "prod_000001" {
			return shop.Product{ID: id, Name: "P"}, nil
		}
		return shop.Product{}, shop.ErrProductNotFound
	}
	svc := newTestService(st, &mockPublisher{})

	product, err := svc.GetProduct(context.Background(), "prod_000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Name != "P" {
		t.Fatalf("want P, got %q", product.Name)
	}

	if _, err := svc.GetProduct(context.Background(), "prod_000002"); !errors.Is(err, shop.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}

func TestValidateProductIDs(t *testing.T) {
	known := map[string]bool{"prod_000001": true, "prod_000002": true}
	st := defaultStore()
	st.findFn = func(_ context.Context, id string) (shop.Product, error) {
		if known[id] {
			return shop.Product{ID: id}, nil
		}
		return shop.Product{}, shop.ErrProductNotFound
	}
	svc := newTestService(st, &mockPublisher{})

	if err := svc.ValidateProductIDs(context.Background(), []string{"prod_000001", "prod_000002"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.ValidateProductIDs(context.Background(), []string{"prod_000001", "prod_999999"})
	if err == nil || !shop.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if want := fmt.Sprintf("product %s does not exist", "prod_999999"); err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}

	st.findFn = func(_ context.Context, _ string) (shop.Product, error) {
		return shop.Product{}, errors.New("db down")
	}
	err = svc.ValidateProductIDs(context.Background(), []string{"prod_000001"})
	if err == nil || shop.IsValidation(err) {
		t.Fatalf("want internal error, got %v", err)
	}
}
