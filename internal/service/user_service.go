package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"marketplace/internal/auth"
	"marketplace/internal/cache"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// UpdateUserInput carries changes to a user record. Nil fields are left alone.
type UpdateUserInput struct {
	Name     *string     `validate:"omitempty,max=50"`
	Email    *string     `validate:"omitempty,email"`
	Phone    *string     `validate:"omitempty,max=20"`
	Password *string     `validate:"omitempty,min=6"`
	Role     *model.Role `validate:"omitempty"`
}

// UserService exposes user administration.
type UserService interface {
	CreateUser(ctx context.Context, in RegisterInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, page repository.Page) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo        repository.UserRepository
	consistency *ConsistencyManager
	cache       *cache.Client
	log         logger.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, consistency *ConsistencyManager, cache *cache.Client, log logger.Logger) UserService {
	return &userService{repo: repo, consistency: consistency, cache: cache, log: log}
}

// CreateUser lets an admin create an account with any role.
func (s *userService) CreateUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	user, err := newUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Validation("email or phone already registered")
		}
		return nil, apperrors.Internal("create user", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user not found", "find user")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, page repository.Page) ([]model.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperrors.Internal("list users", err)
	}
	return users, nil
}

// UpdateUser applies changes to a user. Anyone may update themselves, only
// admins may update others or change a role. A password equal to the current
// one is not re-hashed.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireSelfOrAdmin(p, id); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user not found", "find user")
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.Validation("please add a name")
		}
		fields["name"] = *in.Name
		fields["slug"] = slug.Make(*in.Name)
	}
	if in.Email != nil {
		fields["email"] = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		fields["phone"] = optionalString(*in.Phone)
	}
	if in.Role != nil && *in.Role != current.Role {
		if !p.IsAdmin() {
			return nil, apperrors.Forbidden("only an admin may change a role")
		}
		if !in.Role.Valid() {
			return nil, apperrors.Validation("role must be user, seller or admin")
		}
		fields["role"] = *in.Role
	}
	if in.Password != nil && !auth.VerifyPassword(*in.Password, current.PasswordHash) {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperrors.Internal("hash password", err)
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		return current, nil
	}

	user, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Validation("email or phone already registered")
		}
		return nil, storeError(err, "user not found", "update user")
	}
	_ = s.cache.Delete(ctx, principalCacheKey(id))
	return user, nil
}

// DeleteUser removes a user together with the products they sell and the
// reviews they wrote.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	p, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "user not found", "find user")
	}
	if err := s.consistency.DeleteUser(ctx, user); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, principalCacheKey(id))
	s.log.Info("user removed by admin", map[string]interface{}{"user_id": id.String(), "admin_id": p.ID.String()})
	return nil
}

func (s *userService) requireAdmin(ctx context.Context) (auth.Principal, error) {
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return auth.Principal{}, err
	}
	return p, auth.RequireRole(p, model.RoleAdmin)
}
