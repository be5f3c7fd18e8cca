package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

func newTestProductService(store *memStore) ProductService {
	return NewProductService(store.Products(), store.Users(), store.consistency(), logger.Nop())
}

func productInput(n int) CreateProductInput {
	return CreateProductInput{
		Title:       fmt.Sprintf("Widget %d", n),
		ProductType: "gadget",
		Description: fmt.Sprintf("A very fine widget, number %d", n),
		Price:       decimal.RequireFromString("19.99"),
	}
}

func TestProductService_Create(t *testing.T) {
	store := newMemStore()
	seller, ctx := store.seedUser("Sam", "sam@example.com", model.RoleSeller)
	svc := newTestProductService(store)

	product, err := svc.Create(ctx, productInput(1))
	require.NoError(t, err)
	assert.Equal(t, seller.ID, product.SellerID)
	assert.Equal(t, "widget-1", product.Slug)
	assert.Equal(t, model.DefaultPhoto, product.Photo)
	assert.Nil(t, product.AverageRating)
	assert.True(t, store.user(seller.ID).Products.Contains(product.ID))

	_, err = svc.Create(ctx, productInput(1))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "description must be unique")
}

func TestProductService_Create_RoleGuard(t *testing.T) {
	store := newMemStore()
	_, ctx := store.seedUser("Uma", "uma@example.com", model.RoleUser)
	svc := newTestProductService(store)

	_, err := svc.Create(ctx, productInput(1))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = svc.Create(context.Background(), productInput(1))
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestProductService_Quota(t *testing.T) {
	store := newMemStore()
	seller, sellerCtx := store.seedUser("Sam", "sam@example.com", model.RoleSeller)
	_, adminCtx := store.seedUser("Root", "root@example.com", model.RoleAdmin)
	svc := newTestProductService(store)

	for i := 0; i < MaxProductsPerSeller; i++ {
		_, err := svc.Create(sellerCtx, productInput(i))
		require.NoError(t, err)
	}

	_, err := svc.Create(sellerCtx, productInput(100))
	assert.Equal(t, apperrors.KindQuotaExceeded, apperrors.KindOf(err))
	assert.Equal(t, 400, apperrors.MapErrorToHTTP(err).StatusCode)
	count, err := store.Products().CountBySeller(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxProductsPerSeller), count, "no product is created past the cap")

	for i := 0; i < 3; i++ {
		in := productInput(200 + i)
		in.SellerID = &seller.ID
		product, err := svc.Create(adminCtx, in)
		require.NoError(t, err, "admins are not capped")
		assert.Equal(t, seller.ID, product.SellerID)
	}
	assert.Len(t, store.user(seller.ID).Products, MaxProductsPerSeller+3)
}

func TestProductService_Create_AdminUnknownSeller(t *testing.T) {
	store := newMemStore()
	_, adminCtx := store.seedUser("Root", "root@example.com", model.RoleAdmin)
	svc := newTestProductService(store)

	in := productInput(1)
	missing := uuid.New()
	in.SellerID = &missing
	_, err := svc.Create(adminCtx, in)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestProductService_Create_AdminForNonSeller(t *testing.T) {
	store := newMemStore()
	_, adminCtx := store.seedUser("Root", "root@example.com", model.RoleAdmin)
	buyer, _ := store.seedUser("Uma", "uma@example.com", model.RoleUser)
	svc := newTestProductService(store)

	in := productInput(1)
	in.SellerID = &buyer.ID
	_, err := svc.Create(adminCtx, in)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Empty(t, store.user(buyer.ID).Products)

	all, err := svc.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductService_UpdateOwnership(t *testing.T) {
	store := newMemStore()
	_, ownerCtx := store.seedUser("Olive", "olive@example.com", model.RoleSeller)
	_, otherCtx := store.seedUser("Mallory", "mallory@example.com", model.RoleSeller)
	_, adminCtx := store.seedUser("Root", "root@example.com", model.RoleAdmin)
	svc := newTestProductService(store)

	product, err := svc.Create(ownerCtx, productInput(1))
	require.NoError(t, err)

	title := "Gizmo Deluxe"
	_, err = svc.Update(otherCtx, product.ID, UpdateProductInput{Title: &title})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	updated, err := svc.Update(ownerCtx, product.ID, UpdateProductInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "gizmo-deluxe", updated.Slug)

	price := decimal.RequireFromString("5.00")
	updated, err = svc.Update(adminCtx, product.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))

	_, err = svc.Update(ownerCtx, uuid.New(), UpdateProductInput{Title: &title})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestProductService_DeleteCascades(t *testing.T) {
	store := newMemStore()
	seller, sellerCtx := store.seedUser("Sam", "sam@example.com", model.RoleSeller)
	reviewer, reviewerCtx := store.seedUser("Uma", "uma@example.com", model.RoleUser)
	_, otherCtx := store.seedUser("Mallory", "mallory@example.com", model.RoleSeller)
	products := newTestProductService(store)
	reviews := newTestReviewService(store)

	product, err := products.Create(sellerCtx, productInput(1))
	require.NoError(t, err)
	review, err := reviews.Create(reviewerCtx, product.ID, CreateReviewInput{Title: "Great", Text: "Works well", Rating: 5})
	require.NoError(t, err)
	require.True(t, store.user(reviewer.ID).Reviews.Contains(review.ID))

	err = products.Delete(otherCtx, product.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	require.NoError(t, products.Delete(sellerCtx, product.ID))

	_, err = products.Get(context.Background(), product.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = reviews.Get(context.Background(), review.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.False(t, store.user(seller.ID).Products.Contains(product.ID))
	assert.False(t, store.user(reviewer.ID).Reviews.Contains(review.ID))
}

func TestProductService_ListBySeller(t *testing.T) {
	store := newMemStore()
	seller, sellerCtx := store.seedUser("Sam", "sam@example.com", model.RoleSeller)
	_, otherCtx := store.seedUser("Sue", "sue@example.com", model.RoleSeller)
	svc := newTestProductService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(sellerCtx, productInput(i))
		require.NoError(t, err)
	}
	_, err := svc.Create(otherCtx, productInput(10))
	require.NoError(t, err)

	all, err := svc.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := svc.List(context.Background(), repository.ProductFilter{SellerID: &seller.ID, Page: repository.NewPage(1, 2)})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, p := range mine {
		assert.Equal(t, seller.ID, p.SellerID)
	}
}
