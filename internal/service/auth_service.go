package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"marketplace/internal/auth"
	"marketplace/internal/cache"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/mail"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const principalCacheTTL = 5 * time.Minute

// RegisterInput carries the fields accepted when a user account is created.
type RegisterInput struct {
	Name     string     `validate:"required,max=50"`
	Email    string     `validate:"required,email"`
	Phone    string     `validate:"omitempty,max=20"`
	Password string     `validate:"required,min=6"`
	Role     model.Role `validate:"omitempty"`
}

// UpdateMeInput carries self-service profile changes. Nil fields are left alone.
type UpdateMeInput struct {
	Name  *string `validate:"omitempty,min=1,max=50"`
	Email *string `validate:"omitempty,email"`
	Phone *string `validate:"omitempty,max=20"`
}

// AuthService handles registration, sessions and password management.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Me(ctx context.Context) (*model.User, error)
	UpdateMe(ctx context.Context, in UpdateMeInput) (*model.User, error)
	UpdatePassword(ctx context.Context, currentPassword, newPassword string) (*model.User, string, error)
	// ForgotPassword issues a reset token and mails it. resetURL turns the raw
	// token into the link placed in the message.
	ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*model.User, string, error)
	// ResolvePrincipal loads the user behind a verified token subject.
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (auth.Principal, error)
}

type authService struct {
	users    repository.UserRepository
	jwt      *auth.JWTService
	cache    *cache.Client
	mailer   mail.Sender
	log      logger.Logger
	resetTTL time.Duration
	now      func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService, cache *cache.Client, mailer mail.Sender, log logger.Logger, resetTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		jwt:      jwt,
		cache:    cache,
		mailer:   mailer,
		log:      log,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// Register creates a user and returns it with a session token. Self
// registration may only pick the user or seller role.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	ctx = context.WithoutCancel(ctx)
	role, err := model.ParseRole(string(in.Role))
	if err != nil {
		return nil, "", apperrors.Validation(err.Error())
	}
	if role != model.RoleUser && role != model.RoleSeller {
		return nil, "", apperrors.Validation("role must be user or seller")
	}

	user, err := newUser(in)
	if err != nil {
		return nil, "", err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, "", apperrors.Validation("email or phone already registered")
		}
		return nil, "", apperrors.Internal("create user", err)
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal("generate token", err)
	}
	s.log.Info("user registered", map[string]interface{}{"user_id": user.ID.String(), "role": string(user.Role)})
	return user, token, nil
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.Validation("please provide an email and password")
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Internal("find user", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal("generate token", err)
	}
	return user, token, nil
}

func (s *authService) Me(ctx context.Context) (*model.User, error) {
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(err, "user not found", "find user")
	}
	return user, nil
}

func (s *authService) UpdateMe(ctx context.Context, in UpdateMeInput) (*model.User, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
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
	if len(fields) == 0 {
		return s.Me(ctx)
	}

	user, err := s.users.UpdateFields(ctx, p.ID, fields)
	if err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Validation("email or phone already registered")
		}
		return nil, storeError(err, "user not found", "update user")
	}
	s.forgetPrincipal(ctx, p.ID)
	return user, nil
}

// UpdatePassword changes the caller's password after checking the current one
// and returns a fresh session token.
func (s *authService) UpdatePassword(ctx context.Context, currentPassword, newPassword string) (*model.User, string, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(newPassword) < 6 {
		return nil, "", apperrors.Validation("password must be at least 6 characters")
	}

	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, "", storeError(err, "user not found", "find user")
	}
	if !auth.VerifyPassword(currentPassword, user.PasswordHash) {
		return nil, "", apperrors.Unauthenticated("password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, "", apperrors.Internal("hash password", err)
	}
	user, err = s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": hash})
	if err != nil {
		return nil, "", storeError(err, "user not found", "update password")
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal("generate token", err)
	}
	return user, token, nil
}

// ForgotPassword persists a reset token digest and mails the raw token. When the
// mail cannot be delivered the token is withdrawn before the failure is reported.
func (s *authService) ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error {
	// store writes, the rollback included, outlive a client disconnect
	writeCtx := context.WithoutCancel(ctx)

	user, err := s.users.FindByEmail(writeCtx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("there is no user with that email")
		}
		return apperrors.Internal("find user", err)
	}

	rt, err := auth.IssueResetToken(s.now(), s.resetTTL)
	if err != nil {
		return apperrors.Internal("issue reset token", err)
	}
	if _, err := s.users.UpdateFields(writeCtx, user.ID, map[string]interface{}{
		"reset_password_token":  rt.Digest,
		"reset_password_expire": rt.Expiry,
	}); err != nil {
		return storeError(err, "there is no user with that email", "store reset token")
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Password reset token",
		BodyText: fmt.Sprintf("You are receiving this email because you (or someone else) has requested "+
			"the reset of a password. Please make a PUT request to:\n\n%s", resetURL(rt.Token)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("reset email failed", map[string]interface{}{"user_id": user.ID.String(), "error": err})
		if _, rbErr := s.users.UpdateFields(writeCtx, user.ID, map[string]interface{}{
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		}); rbErr != nil {
			s.log.Error("reset token rollback failed", map[string]interface{}{"user_id": user.ID.String(), "error": rbErr})
		}
		return apperrors.Delivery("email could not be sent", err)
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and returns a session token.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (*model.User, string, error) {
	ctx = context.WithoutCancel(ctx)
	if len(newPassword) < 6 {
		return nil, "", apperrors.Validation("password must be at least 6 characters")
	}

	user, err := s.users.FindByResetToken(ctx, auth.DigestResetToken(token), s.now())
	if err != nil {
		if isNotFound(err) {
			return nil, "", apperrors.ErrInvalidResetToken
		}
		return nil, "", apperrors.Internal("find reset token", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, "", apperrors.Internal("hash password", err)
	}
	user, err = s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash":         hash,
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	})
	if err != nil {
		return nil, "", storeError(err, "user not found", "reset password")
	}

	jwtToken, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal("generate token", err)
	}
	return user, jwtToken, nil
}

func (s *authService) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (auth.Principal, error) {
	key := principalCacheKey(userID)

	var p auth.Principal
	if s.cache.GetJSON(ctx, key, &p) && p.ID == userID {
		return p, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return auth.Principal{}, apperrors.ErrNotAuthorized
		}
		return auth.Principal{}, apperrors.Internal("load principal", err)
	}
	p = auth.PrincipalFromUser(user)
	s.cache.SetJSON(ctx, key, p, principalCacheTTL)
	return p, nil
}

func (s *authService) forgetPrincipal(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.Delete(ctx, principalCacheKey(userID))
}

func principalCacheKey(id uuid.UUID) string {
	return "principal:" + id.String()
}

func newUser(in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	role, err := model.ParseRole(string(in.Role))
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}
	return &model.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Slug:         slug.Make(in.Name),
		Email:        in.Email,
		Phone:        optionalString(in.Phone),
		PasswordHash: hash,
		Role:         role,
		Products:     model.IDList{},
		Reviews:      model.IDList{},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
