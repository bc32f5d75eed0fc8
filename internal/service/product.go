package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
	"github.com/SIXMAR729/product-cli-project/pkg/ident"
	"github.com/SIXMAR729/product-cli-project/pkg/trm"
)

const productIDPrefix = "prod"

type ProductRepo interface {
	InsertProduct(ctx context.Context, p entities.Product) error
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	UpdateProduct(ctx context.Context, productID string, update entities.ProductUpdate) error
	DeleteProduct(ctx context.Context, productID string) error
	ListProducts(ctx context.Context) ([]entities.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type productService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      ProductRepo
}

func NewProductService(logger *slog.Logger, txManager trm.Manager, repo ProductRepo) *productService {
	return &productService{
		logger:    logger.With(slog.String("service", "product")),
		txManager: txManager,
		repo:      repo,
	}
}

// Add validates input before any storage access, allocates an id and
// persists the product.
func (s *productService) Add(ctx context.Context, name string, price float64, description string) (entities.Product, error) {
	if name == "" {
		return entities.Product{}, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	if price < 0 {
		return entities.Product{}, fmt.Errorf("%w: price must be non-negative", entities.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	product := entities.Product{
		ProductID:   ident.New(productIDPrefix),
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertProduct(ctx, product); err != nil {
		return entities.Product{}, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Debug("product added", slog.String("product_id", product.ProductID))
	return product, nil
}

// Edit applies only the fields present in the update set and returns the
// resulting product. Update and read-back share one transaction, so the
// returned state is the committed one.
func (s *productService) Edit(ctx context.Context, productID string, update entities.ProductUpdate) (entities.Product, error) {
	if productID == "" {
		return entities.Product{}, fmt.Errorf("%w: product id is required", entities.ErrInvalidArgument)
	}
	if update.Name != nil && *update.Name == "" {
		return entities.Product{}, fmt.Errorf("%w: name cannot be empty", entities.ErrInvalidArgument)
	}
	if update.Price != nil && *update.Price < 0 {
		return entities.Product{}, fmt.Errorf("%w: price must be non-negative", entities.ErrInvalidArgument)
	}

	var product entities.Product
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if !update.Empty() {
			if err := s.repo.UpdateProduct(ctx, productID, update); err != nil {
				return err
			}
		}
		p, err := s.repo.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return entities.Product{}, err
	}

	s.logger.Debug("product edited", slog.String("product_id", productID))
	return product, nil
}

// Delete reports not-found on a second delete of the same id rather than
// succeeding silently.
func (s *productService) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("%w: product id is required", entities.ErrInvalidArgument)
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	s.logger.Debug("product deleted", slog.String("product_id", productID))
	return nil
}

func (s *productService) Get(ctx context.Context, productID string) (entities.Product, error) {
	if productID == "" {
		return entities.Product{}, fmt.Errorf("%w: product id is required", entities.ErrInvalidArgument)
	}
	return s.repo.GetProduct(ctx, productID)
}

func (s *productService) List(ctx context.Context) ([]entities.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *productService) Count(ctx context.Context) (int64, error) {
	return s.repo.CountProducts(ctx)
}
