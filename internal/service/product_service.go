package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/metrics"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// MaxProductsPerSeller caps how many listings a non-admin may own at once.
const MaxProductsPerSeller = 10

// CreateProductInput carries a new listing. SellerID is honoured for admins only.
type CreateProductInput struct {
	Title       string          `validate:"required,max=50"`
	ProductType string          `validate:"required,max=50"`
	Description string          `validate:"required,max=500"`
	Photo       string          `validate:"omitempty,max=255"`
	Price       decimal.Decimal `validate:"-"`
	SellerID    *uuid.UUID      `validate:"-"`
}

// UpdateProductInput carries listing changes. Nil fields are left alone.
type UpdateProductInput struct {
	Title       *string          `validate:"omitempty,max=50"`
	ProductType *string          `validate:"omitempty,max=50"`
	Description *string          `validate:"omitempty,max=500"`
	Photo       *string          `validate:"omitempty,max=255"`
	Price       *decimal.Decimal `validate:"-"`
}

// ProductService manages marketplace listings.
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	products    repository.ProductRepository
	users       repository.UserRepository
	consistency *ConsistencyManager
	log         logger.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, users repository.UserRepository, consistency *ConsistencyManager, log logger.Logger) ProductService {
	return &productService{products: products, users: users, consistency: consistency, log: log}
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("list products", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("no product with the id of %s", id), "find product")
	}
	return product, nil
}

// Create adds a listing owned by the caller, or by SellerID when the caller is
// an admin. Non-admins are limited to MaxProductsPerSeller listings; the count
// and the insert are separate steps, so concurrent creates can overshoot.
func (s *productService) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireRole(p, model.RoleSeller, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, apperrors.Validation("price must not be negative")
	}

	sellerID := p.ID
	if p.IsAdmin() && in.SellerID != nil && *in.SellerID != p.ID {
		owner, err := s.users.FindByID(ctx, *in.SellerID)
		if err != nil {
			return nil, storeError(err, fmt.Sprintf("no user with the id of %s", *in.SellerID), "find seller")
		}
		if owner.Role != model.RoleSeller && owner.Role != model.RoleAdmin {
			return nil, apperrors.Validation(fmt.Sprintf("user %s is not a seller", owner.ID))
		}
		sellerID = owner.ID
	}

	if !p.IsAdmin() {
		count, err := s.products.CountBySeller(ctx, sellerID)
		if err != nil {
			return nil, apperrors.Internal("count products", err)
		}
		if count >= MaxProductsPerSeller {
			return nil, apperrors.QuotaExceeded(fmt.Sprintf("the user with ID %s has already created %d products", p.ID, MaxProductsPerSeller))
		}
	}

	photo := in.Photo
	if photo == "" {
		photo = model.DefaultPhoto
	}
	product := &model.Product{
		ID:          uuid.New(),
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		ProductType: in.ProductType,
		Description: in.Description,
		Photo:       photo,
		Price:       in.Price,
		SellerID:    sellerID,
		Reviews:     model.IDList{},
	}
	if err := s.products.Create(ctx, product); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Validation("a product with this description already exists")
		}
		return nil, apperrors.Internal("create product", err)
	}
	if err := s.consistency.ProductCreated(ctx, product); err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	s.log.Info("product created", map[string]interface{}{
		"product_id": product.ID.String(),
		"seller_id":  sellerID.String(),
	})
	return product, nil
}

// Update changes a listing. Only the seller or an admin may do so.
func (s *productService) Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*model.Product, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireRole(p, model.RoleSeller, model.RoleAdmin); err != nil {
		return nil, err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, product.SellerID, "update this product"); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperrors.Validation("please add a title")
		}
		fields["title"] = *in.Title
		fields["slug"] = slug.Make(*in.Title)
	}
	if in.ProductType != nil {
		fields["product_type"] = *in.ProductType
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Photo != nil {
		fields["photo"] = *in.Photo
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperrors.Validation("price must not be negative")
		}
		fields["price"] = *in.Price
	}
	if len(fields) == 0 {
		return product, nil
	}

	updated, err := s.products.UpdateFields(ctx, id, fields)
	if err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Validation("a product with this description already exists")
		}
		return nil, storeError(err, fmt.Sprintf("no product with the id of %s", id), "update product")
	}
	return updated, nil
}

// Delete removes a listing with its reviews. Only the seller or an admin may do so.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return err
	}
	if err := auth.RequireRole(p, model.RoleSeller, model.RoleAdmin); err != nil {
		return err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(p, product.SellerID, "delete this product"); err != nil {
		return err
	}
	return s.consistency.DeleteProduct(ctx, product)
}
