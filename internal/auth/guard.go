package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
)

// Authenticated returns the request principal or an Unauthenticated error.
func Authenticated(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, apperrors.ErrNotAuthorized
	}
	return p, nil
}

// RequireRole fails with Forbidden unless p's role is in allowed.
func RequireRole(p Principal, allowed ...model.Role) error {
	if !p.Role.Valid() {
		return apperrors.Forbidden(fmt.Sprintf("role %q is not recognized", p.Role))
	}
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return apperrors.Forbidden(fmt.Sprintf("user of role %s is not authorized to perform this action", p.Role))
}

// RequireOwner fails with Forbidden unless p owns the resource or is an admin.
// action reads like "update this product".
func RequireOwner(p Principal, ownerID uuid.UUID, action string) error {
	if p.IsAdmin() || p.ID == ownerID {
		return nil
	}
	return apperrors.Forbidden(fmt.Sprintf("%s is not allowed to %s", p.Name, action))
}

// RequireSelfOrAdmin guards User record updates: anyone may update themselves,
// only admins may update others.
func RequireSelfOrAdmin(p Principal, userID uuid.UUID) error {
	return RequireOwner(p, userID, "update another user")
}
