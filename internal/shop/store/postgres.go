package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
)

const healthCheckTimeout = 2 * time.Second

// Postgres keeps both collections in postgres. Ids come from
// per-collection sequences formatted to the same prod_/order_ shape as
// the other backends; ordering by id is insertion order because the
// numeric part is zero-padded.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) InsertProduct(ctx context.Context, p shop.Product) (shop.Product, error) {
	query := `
		INSERT INTO products (id, name, description, price, size)
		VALUES ('prod_' || lpad(nextval('products_seq')::text, 6, '0'), $1, $2, $3, $4)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Price, p.Size).Scan(&p.ID); err != nil {
		return shop.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Postgres) FindProductByID(ctx context.Context, id string) (shop.Product, error) {
	query := `SELECT id, name, description, price, size FROM products WHERE id = $1`

	var p shop.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return shop.Product{}, shop.ErrProductNotFound
	}
	if err != nil {
		return shop.Product{}, fmt.Errorf("query product %s: %w", id, err)
	}
	return p, nil
}

func (s *Postgres) FindProducts(ctx context.Context, filter ProductFilter, page Page) ([]shop.Product, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, name, description, price, size FROM products`)

	var conds []string
	if filter.Name != "" {
		args = append(args, filter.Name)
		conds = append(conds, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Size != "" {
		args = append(args, filter.Size)
		conds = append(conds, fmt.Sprintf("size = $%d", len(args)))
	}
	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	query.WriteString(" ORDER BY id ASC")
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if page.Offset > 0 {
		args = append(args, page.Offset)
		query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	list := make([]shop.Product, 0)
	for rows.Next() {
		var p shop.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Size); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return list, nil
}

func (s *Postgres) InsertOrder(ctx context.Context, o shop.Order) (shop.Order, error) {
	query := `
		INSERT INTO orders (id, user_id, products, total)
		VALUES ('order_' || lpad(nextval('orders_seq')::text, 6, '0'), $1, $2, $3)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, o.UserID, pq.Array(o.Products), o.Total).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return shop.Order{}, fmt.Errorf("insert order: %w", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}

func (s *Postgres) FindOrderByID(ctx context.Context, id string) (shop.Order, error) {
	query := `SELECT id, user_id, products, total, created_at FROM orders WHERE id = $1`

	var o shop.Order
	err := s.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.UserID, pq.Array(&o.Products), &o.Total, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return shop.Order{}, shop.ErrOrderNotFound
	}
	if err != nil {
		return shop.Order{}, fmt.Errorf("query order %s: %w", id, err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}

func (s *Postgres) FindOrdersByUser(ctx context.Context, userID string, page Page) ([]shop.Order, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, user_id, products, total, created_at FROM orders WHERE user_id = $1 ORDER BY id ASC`)
	args = append(args, userID)
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if page.Offset > 0 {
		args = append(args, page.Offset)
		query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query orders for %s: %w", userID, err)
	}
	defer rows.Close()

	list := make([]shop.Order, 0)
	for rows.Next() {
		var o shop.Order
		if err := rows.Scan(&o.ID, &o.UserID, pq.Array(&o.Products), &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.CreatedAt = o.CreatedAt.UTC()
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return list, nil
}

func (s *Postgres) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}
