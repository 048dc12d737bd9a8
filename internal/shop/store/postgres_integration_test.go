//go:build integration

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
)

const (
	testDBName = "test_shop"
	testDBUser = "test"
	testDBPass = "test"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	m, err := migrate.New("file://"+migrationsDir(t), connStr)
	if err != nil {
		t.Fatalf("init migrate: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("run migrations: %v", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		t.Fatalf("close migrate source: %v", srcErr)
	}
	if dbErr != nil {
		t.Fatalf("close migrate db: %v", dbErr)
	}

	return db
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations", "store")
}

func TestPostgres_Products(t *testing.T) {
	db := setupTestDB(t)
	st := NewPostgres(db)
	ctx := context.Background()

	t.Run("insert assigns sequential prod ids", func(t *testing.T) {
		p1, err := st.InsertProduct(ctx, shop.Product{Name: "iPhone 14", Description: "A16 Bionic", Price: 999.99, Size: "large"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p1.ID != "prod_000001" {
			t.Fatalf("want prod_000001, got %q", p1.ID)
		}

		p2, err := st.InsertProduct(ctx, shop.Product{Name: "AirPods Pro", Description: "Earbuds", Price: 249, Size: "small"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p2.ID != "prod_000002" {
			t.Fatalf("want prod_000002, got %q", p2.ID)
		}
	})

	t.Run("get after create round-trips", func(t *testing.T) {
		got, err := st.FindProductByID(ctx, "prod_000001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "iPhone 14" || got.Price != 999.99 || got.Size != "large" {
			t.Fatalf("round-trip mismatch: %+v", got)
		}
	})

	t.Run("missing id returns ErrProductNotFound", func(t *testing.T) {
		_, err := st.FindProductByID(ctx, "prod_999999")
		if !errors.Is(err, shop.ErrProductNotFound) {
			t.Fatalf("want ErrProductNotFound, got %v", err)
		}
	})

	t.Run("filters and pagination", func(t *testing.T) {
		items, err := st.FindProducts(ctx, ProductFilter{Name: "phone"}, Page{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].Name != "iPhone 14" {
			t.Fatalf("want [iPhone 14], got %+v", items)
		}

		items, err = st.FindProducts(ctx, ProductFilter{Size: "small"}, Page{Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].Name != "AirPods Pro" {
			t.Fatalf("want [AirPods Pro], got %+v", items)
		}

		items, err = st.FindProducts(ctx, ProductFilter{}, Page{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ID != "prod_000002" {
			t.Fatalf("want [prod_000002], got %+v", items)
		}
	})
}

func TestPostgres_Orders(t *testing.T) {
	db := setupTestDB(t)
	st := NewPostgres(db)
	ctx := context.Background()

	p, err := st.InsertProduct(ctx, shop.Product{Name: "P", Description: "d", Price: 10, Size: "s"})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	o, err := st.InsertOrder(ctx, shop.Order{UserID: "alice", Products: []string{p.ID}, Total: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != "order_000001" {
		t.Fatalf("want order_000001, got %q", o.ID)
	}
	if o.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be stamped")
	}

	got, err := st.FindOrderByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "alice" || len(got.Products) != 1 || got.Products[0] != p.ID {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, err := st.FindOrderByID(ctx, "order_999999"); !errors.Is(err, shop.ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound, got %v", err)
	}

	list, err := st.FindOrdersByUser(ctx, "alice", Page{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != o.ID {
		t.Fatalf("want [%s], got %+v", o.ID, list)
	}

	list, err = st.FindOrdersByUser(ctx, "nobody", Page{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("want empty list, got %+v", list)
	}
}

func TestPostgres_Health(t *testing.T) {
	db := setupTestDB(t)
	st := NewPostgres(db)

	if err := st.Health(); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}
