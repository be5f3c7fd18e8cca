package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace/internal/auth"
	"marketplace/internal/logger"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// memStore is an in-memory stand-in for the three gorm repositories. It returns
// the same sentinel errors gorm does with TranslateError enabled.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]model.User
	products map[uuid.UUID]model.Product
	reviews  map[uuid.UUID]model.Review
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]model.User{},
		products: map[uuid.UUID]model.Product{},
		reviews:  map[uuid.UUID]model.Review{},
	}
}

// created returns increasing timestamps so listings have a stable order.
func (s *memStore) created() time.Time {
	s.seq++
	return time.Date(2026, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

func (s *memStore) Users() repository.UserRepository       { return memUsers{s} }
func (s *memStore) Products() repository.ProductRepository { return memProducts{s} }
func (s *memStore) Reviews() repository.ReviewRepository   { return memReviews{s} }

func (s *memStore) consistency() *ConsistencyManager {
	return NewConsistencyManager(s.Users(), s.Products(), s.Reviews(), logger.Nop())
}

func (s *memStore) user(id uuid.UUID) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) product(id uuid.UUID) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// seedUser stores a user directly and returns a context authenticated as them.
func (s *memStore) seedUser(name, email string, role model.Role) (*model.User, context.Context) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		panic(err)
	}
	u := &model.User{ID: uuid.New(), Name: name, Email: email, Role: role, PasswordHash: hash}
	if err := s.Users().Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u, auth.WithPrincipal(context.Background(), auth.PrincipalFromUser(u))
}

func page[T any](items []T, p repository.Page) []T {
	if p.Size < 1 {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Email == u.Email || (u.Phone != nil && other.Phone != nil && *u.Phone == *other.Phone) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.CreatedAt = r.s.created()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) FindByResetToken(_ context.Context, digest string, now time.Time) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == digest &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) List(_ context.Context, p repository.Page) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, p), nil
}

func (r memUsers) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.User, error) {
	r.s.mu.Lock()
	u, ok := r.s.users[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "slug":
			u.Slug = v.(string)
		case "email":
			for oid, other := range r.s.users {
				if oid != id && other.Email == v.(string) {
					r.s.mu.Unlock()
					return nil, gorm.ErrDuplicatedKey
				}
			}
			u.Email = v.(string)
		case "phone":
			u.Phone = v.(*string)
		case "role":
			u.Role = v.(model.Role)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "products":
			u.Products = v.(model.IDList)
		case "reviews":
			u.Reviews = v.(model.IDList)
		case "reset_password_token":
			if v == nil {
				u.ResetPasswordToken = nil
			} else {
				tok := v.(string)
				u.ResetPasswordToken = &tok
			}
		case "reset_password_expire":
			if v == nil {
				u.ResetPasswordExpire = nil
			} else {
				exp := v.(time.Time)
				u.ResetPasswordExpire = &exp
			}
		default:
			panic("memUsers: unknown column " + k)
		}
	}
	r.s.users[id] = u
	r.s.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r memUsers) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = map[uuid.UUID]model.User{}
	return nil
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.products {
		if other.Description == p.Description {
			return gorm.ErrDuplicatedKey
		}
	}
	p.CreatedAt = r.s.created()
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r memProducts) List(_ context.Context, f repository.ProductFilter) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.s.products {
		if f.SellerID != nil && p.SellerID != *f.SellerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Page), nil
}

func (r memProducts) CountBySeller(_ context.Context, sellerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

func (r memProducts) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Product, error) {
	r.s.mu.Lock()
	p, ok := r.s.products[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			p.Title = v.(string)
		case "slug":
			p.Slug = v.(string)
		case "product_type":
			p.ProductType = v.(string)
		case "description":
			p.Description = v.(string)
		case "photo":
			p.Photo = v.(string)
		case "price":
			p.Price = v.(decimal.Decimal)
		case "reviews":
			p.Reviews = v.(model.IDList)
		case "average_rating":
			if v == nil {
				p.AverageRating = nil
			} else {
				avg := v.(float64)
				p.AverageRating = &avg
			}
		default:
			panic("memProducts: unknown column " + k)
		}
	}
	r.s.products[id] = p
	r.s.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r memProducts) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r memProducts) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = map[uuid.UUID]model.Product{}
	return nil
}

type memReviews struct{ s *memStore }

func (r memReviews) Create(_ context.Context, rv *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.reviews {
		if other.ProductID == rv.ProductID && other.UserID == rv.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	rv.CreatedAt = r.s.created()
	r.s.reviews[rv.ID] = *rv
	return nil
}

func (r memReviews) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rv, nil
}

func (r memReviews) List(_ context.Context, f repository.ReviewFilter) ([]model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Review
	for _, rv := range r.s.reviews {
		if f.ProductID != nil && rv.ProductID != *f.ProductID {
			continue
		}
		if f.UserID != nil && rv.UserID != *f.UserID {
			continue
		}
		if f.WithProduct {
			if p, ok := r.s.products[rv.ProductID]; ok {
				rv.ProductInfo = &model.ProductSummary{ID: p.ID, Title: p.Title, Description: p.Description}
			}
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Page), nil
}

func (r memReviews) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Review, error) {
	r.s.mu.Lock()
	rv, ok := r.s.reviews[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			rv.Title = v.(string)
		case "slug":
			rv.Slug = v.(string)
		case "text":
			rv.Text = v.(string)
		case "photo":
			rv.Photo = v.(string)
		case "rating":
			rv.Rating = v.(int)
		default:
			panic("memReviews: unknown column " + k)
		}
	}
	r.s.reviews[id] = rv
	r.s.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r memReviews) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reviews, id)
	return nil
}

func (r memReviews) DeleteByProduct(_ context.Context, productID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rv := range r.s.reviews {
		if rv.ProductID == productID {
			delete(r.s.reviews, id)
		}
	}
	return nil
}

func (r memReviews) DeleteAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reviews = map[uuid.UUID]model.Review{}
	return nil
}
