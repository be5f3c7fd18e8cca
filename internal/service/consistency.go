package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"marketplace/internal/logger"
	"marketplace/internal/metrics"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// ConsistencyManager keeps the denormalized id lists on users and products and
// the product average rating in step with the review and product documents.
// Its mutations run detached from the caller's cancellation, so a cascade that
// has started is carried to the end.
//
// The store offers per-document atomic updates only. Every list change here is
// a read followed by a write of the whole list. Those pairs are serialized per
// document inside this process; two server instances can still lose an append.
type ConsistencyManager struct {
	users    repository.UserRepository
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	log      logger.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*docLock
}

// docLock is dropped from the map once its last holder or waiter releases it.
type docLock struct {
	mu   sync.Mutex
	refs int
}

// NewConsistencyManager wires a ConsistencyManager over the three repositories.
func NewConsistencyManager(users repository.UserRepository, products repository.ProductRepository, reviews repository.ReviewRepository, log logger.Logger) *ConsistencyManager {
	return &ConsistencyManager{
		users:    users,
		products: products,
		reviews:  reviews,
		log:      log,
		locks:    make(map[uuid.UUID]*docLock),
	}
}

// lock serializes read-modify-write on one document and returns the release func.
func (m *ConsistencyManager) lock(id uuid.UUID) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &docLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// ProductCreated appends the product id to its seller's product list.
func (m *ConsistencyManager) ProductCreated(ctx context.Context, product *model.Product) error {
	ctx = context.WithoutCancel(ctx)
	defer m.lock(product.SellerID)()

	seller, err := m.users.FindByID(ctx, product.SellerID)
	if err != nil {
		return storeError(err, "seller not found", "load seller")
	}
	if _, err := m.users.UpdateFields(ctx, seller.ID, map[string]interface{}{
		"products": seller.Products.With(product.ID),
	}); err != nil {
		return storeError(err, "seller not found", "link product to seller")
	}
	return nil
}

// ReviewCreated appends the review id to the author's and the product's review
// lists, then recomputes the product's average rating.
func (m *ConsistencyManager) ReviewCreated(ctx context.Context, review *model.Review) error {
	ctx = context.WithoutCancel(ctx)
	if err := m.attachReviewToAuthor(ctx, review); err != nil {
		return err
	}
	if err := m.attachReviewToProduct(ctx, review); err != nil {
		return err
	}
	m.refreshAverageRating(ctx, review.ProductID)
	return nil
}

func (m *ConsistencyManager) attachReviewToAuthor(ctx context.Context, review *model.Review) error {
	defer m.lock(review.UserID)()

	author, err := m.users.FindByID(ctx, review.UserID)
	if err != nil {
		return storeError(err, "author not found", "load review author")
	}
	if _, err := m.users.UpdateFields(ctx, author.ID, map[string]interface{}{
		"reviews": author.Reviews.With(review.ID),
	}); err != nil {
		return storeError(err, "author not found", "link review to author")
	}
	return nil
}

func (m *ConsistencyManager) attachReviewToProduct(ctx context.Context, review *model.Review) error {
	defer m.lock(review.ProductID)()

	product, err := m.products.FindByID(ctx, review.ProductID)
	if err != nil {
		return storeError(err, "product not found", "load reviewed product")
	}
	if _, err := m.products.UpdateFields(ctx, product.ID, map[string]interface{}{
		"reviews": product.Reviews.With(review.ID),
	}); err != nil {
		return storeError(err, "product not found", "link review to product")
	}
	return nil
}

// DeleteReview removes the review document, detaches it from both lists that
// reference it and recomputes the product's average rating.
func (m *ConsistencyManager) DeleteReview(ctx context.Context, review *model.Review) error {
	ctx = context.WithoutCancel(ctx)
	if err := m.reviews.Delete(ctx, review.ID); err != nil {
		return storeError(err, "review not found", "delete review")
	}
	if err := m.detachReviewFromProduct(ctx, review.ProductID, review.ID); err != nil {
		return err
	}
	if err := m.detachReviews(ctx, review.UserID, []uuid.UUID{review.ID}); err != nil {
		return err
	}
	m.refreshAverageRating(ctx, review.ProductID)
	metrics.RecordCascadeDelete("review", 1)
	return nil
}

// DeleteProduct deletes the product's reviews, removes them from their authors'
// lists, removes the product from its seller's list and deletes the product.
func (m *ConsistencyManager) DeleteProduct(ctx context.Context, product *model.Product) error {
	ctx = context.WithoutCancel(ctx)
	productID := product.ID
	reviews, err := m.reviews.List(ctx, repository.ReviewFilter{ProductID: &productID})
	if err != nil {
		return storeError(err, "", "list product reviews")
	}

	byAuthor := make(map[uuid.UUID][]uuid.UUID)
	for _, r := range reviews {
		byAuthor[r.UserID] = append(byAuthor[r.UserID], r.ID)
	}
	for authorID, ids := range byAuthor {
		if err := m.detachReviews(ctx, authorID, ids); err != nil {
			return err
		}
	}
	if err := m.reviews.DeleteByProduct(ctx, product.ID); err != nil {
		return storeError(err, "", "delete product reviews")
	}

	if err := m.detachProduct(ctx, product.SellerID, product.ID); err != nil {
		return err
	}
	if err := m.products.Delete(ctx, product.ID); err != nil {
		return storeError(err, "product not found", "delete product")
	}

	metrics.RecordCascadeDelete("review", len(reviews))
	metrics.RecordCascadeDelete("product", 1)
	m.log.Info("product deleted", map[string]interface{}{
		"product_id": product.ID.String(),
		"reviews":    len(reviews),
	})
	return nil
}

// DeleteUser deletes every product the user sells (with their reviews), every
// review the user wrote on other products, and finally the user.
func (m *ConsistencyManager) DeleteUser(ctx context.Context, user *model.User) error {
	ctx = context.WithoutCancel(ctx)
	userID := user.ID
	products, err := m.products.List(ctx, repository.ProductFilter{SellerID: &userID})
	if err != nil {
		return storeError(err, "", "list user products")
	}
	for i := range products {
		if err := m.DeleteProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	reviews, err := m.reviews.List(ctx, repository.ReviewFilter{UserID: &userID})
	if err != nil {
		return storeError(err, "", "list user reviews")
	}
	for i := range reviews {
		if err := m.DeleteReview(ctx, &reviews[i]); err != nil {
			return err
		}
	}

	if err := m.users.Delete(ctx, user.ID); err != nil {
		return storeError(err, "user not found", "delete user")
	}
	metrics.RecordCascadeDelete("user", 1)
	m.log.Info("user deleted", map[string]interface{}{
		"user_id":  user.ID.String(),
		"products": len(products),
		"reviews":  len(reviews),
	})
	return nil
}

// RecomputeAverageRating sets the product's average rating to the mean of all
// its review ratings, or clears it when no reviews remain.
func (m *ConsistencyManager) RecomputeAverageRating(ctx context.Context, productID uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	reviews, err := m.reviews.List(ctx, repository.ReviewFilter{ProductID: &productID})
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}

	var avg interface{}
	if v := AverageRating(reviews); v != nil {
		avg = *v
	}
	if _, err := m.products.UpdateFields(ctx, productID, map[string]interface{}{
		"average_rating": avg,
	}); err != nil {
		return fmt.Errorf("update average rating: %w", err)
	}
	return nil
}

// refreshAverageRating recomputes and logs failures. The triggering mutation has
// already been persisted, and the next recomputation starts from scratch.
func (m *ConsistencyManager) refreshAverageRating(ctx context.Context, productID uuid.UUID) {
	err := m.RecomputeAverageRating(ctx, productID)
	metrics.RecordRatingRecompute(err == nil)
	if err != nil && !isNotFound(err) {
		m.log.Error("average rating recomputation failed", map[string]interface{}{
			"product_id": productID.String(),
			"error":      err,
		})
	}
}

// AverageRating returns the mean rating of reviews, or nil for none.
func AverageRating(reviews []model.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg
}

func (m *ConsistencyManager) detachReviewFromProduct(ctx context.Context, productID, reviewID uuid.UUID) error {
	defer m.lock(productID)()

	product, err := m.products.FindByID(ctx, productID)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return storeError(err, "", "load reviewed product")
	}
	if !product.Reviews.Contains(reviewID) {
		return nil
	}
	if _, err := m.products.UpdateFields(ctx, productID, map[string]interface{}{
		"reviews": product.Reviews.Without(reviewID),
	}); err != nil && !isNotFound(err) {
		return storeError(err, "", "unlink review from product")
	}
	return nil
}

func (m *ConsistencyManager) detachReviews(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) error {
	defer m.lock(userID)()

	user, err := m.users.FindByID(ctx, userID)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return storeError(err, "", "load review author")
	}
	remaining := user.Reviews
	for _, id := range reviewIDs {
		remaining = remaining.Without(id)
	}
	if len(remaining) == len(user.Reviews) {
		return nil
	}
	if _, err := m.users.UpdateFields(ctx, userID, map[string]interface{}{
		"reviews": remaining,
	}); err != nil && !isNotFound(err) {
		return storeError(err, "", "unlink reviews from author")
	}
	return nil
}

func (m *ConsistencyManager) detachProduct(ctx context.Context, sellerID, productID uuid.UUID) error {
	defer m.lock(sellerID)()

	seller, err := m.users.FindByID(ctx, sellerID)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return storeError(err, "", "load seller")
	}
	if !seller.Products.Contains(productID) {
		return nil
	}
	if _, err := m.users.UpdateFields(ctx, sellerID, map[string]interface{}{
		"products": seller.Products.Without(productID),
	}); err != nil && !isNotFound(err) {
		return storeError(err, "", "unlink product from seller")
	}
	return nil
}
