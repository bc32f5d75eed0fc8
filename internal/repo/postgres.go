package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
	"github.com/SIXMAR729/product-cli-project/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) InsertProduct(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Insert("products").
		Columns("product_id", "name", "description", "price", "created_at", "updated_at").
		Values(p.ProductID, p.Name, p.Description, p.Price, p.CreatedAt, p.UpdatedAt).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("product %s: %w", p.ProductID, entities.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	query, args := r.qb.Select("product_id", "name", "description", "price", "created_at", "updated_at").
		From("products").
		Where(sq.Eq{"product_id": productID}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, fmt.Errorf("%w: %s", entities.ErrProductNotFound, productID)
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

// UpdateProduct applies only the fields present in the update set. The
// caller guarantees the set is non-empty.
func (r *postgresRepo) UpdateProduct(ctx context.Context, productID string, update entities.ProductUpdate) error {
	fields := map[string]any{"updated_at": sq.Expr("now()")}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}

	query, args := r.qb.Update("products").
		SetMap(fields).
		Where(sq.Eq{"product_id": productID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrProductNotFound, productID)
	}
	return nil
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, productID string) error {
	query, args := r.qb.Delete("products").
		Where(sq.Eq{"product_id": productID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrProductNotFound, productID)
	}
	return nil
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]entities.Product, error) {
	// Insertion order keeps listings stable across calls
	query, args := r.qb.Select("product_id", "name", "description", "price", "created_at", "updated_at").
		From("products").
		OrderBy("created_at", "product_id").
		MustSql()

	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, nil
}

func (r *postgresRepo) CountProducts(ctx context.Context) (int64, error) {
	query, args := r.qb.Select("COUNT(*)").From("products").MustSql()

	var count int64
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *postgresRepo) InsertOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns("order_id", "customer_id", "total_amount", "created_at").
		Values(o.OrderID, o.CustomerID, o.TotalAmount, o.CreatedAt).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("order %s: %w", o.OrderID, entities.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_id", "position", "product_id", "quantity", "price")
	for i, it := range o.Items {
		q = q.Values(o.OrderID, i, it.ProductID, it.Quantity, it.Price)
	}

	query, args = q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select("order_id", "customer_id", "total_amount", "created_at").
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, fmt.Errorf("%w: %s", entities.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select("order_id", "position", "product_id", "quantity", "price").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("position").
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order items: %w", err)
	}

	return OrderToEntity(order, items), nil
}

func (r *postgresRepo) CountOrders(ctx context.Context) (int64, error) {
	query, args := r.qb.Select("COUNT(*)").From("orders").MustSql()

	var count int64
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
