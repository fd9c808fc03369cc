// Package policy decides what a caller may do with each resource.
package policy

import (
	"media-review/internal/data/entity"
	"media-review/pkg/apperror"

	"github.com/google/uuid"
)

// Principal is the authenticated caller. A nil *Principal is anonymous.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     entity.UserRole
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == entity.RoleAdmin
}

func (p *Principal) IsModerator() bool {
	return p != nil && p.Role == entity.RoleModerator
}

type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceUser     Resource = "user"
	ResourceProfile  Resource = "profile"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var (
	ErrUnauthenticated = apperror.Unauthorized("authentication credentials were not provided")
	ErrForbidden       = apperror.Forbidden("you do not have permission to perform this action")
)

// Check applies the resource-level rules. Ownership of individual reviews and
// comments is decided by CheckOwner once the object is loaded.
func Check(p *Principal, res Resource, act Action) error {
	switch res {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		if act == ActionRead {
			return nil
		}
		return requireAdmin(p)

	case ResourceUser:
		return requireAdmin(p)

	case ResourceProfile:
		if act == ActionCreate || act == ActionDelete {
			return ErrForbidden
		}
		return requireAuth(p)

	case ResourceReview, ResourceComment:
		if act == ActionRead {
			return nil
		}
		return requireAuth(p)
	}

	return ErrForbidden
}

// CheckOwner is the object-level rule for reviews and comments: reads are
// public, mutations are limited to the author, moderators and admins.
func CheckOwner(p *Principal, res Resource, act Action, ownerID uuid.UUID) error {
	if err := Check(p, res, act); err != nil {
		return err
	}
	if act == ActionRead || act == ActionCreate {
		return nil
	}
	if p.UserID == ownerID || p.IsModerator() || p.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanChangeRole reports whether p may set the role field of a user.
func CanChangeRole(p *Principal) bool {
	return p.IsAdmin()
}

func requireAuth(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	return nil
}

func requireAdmin(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
