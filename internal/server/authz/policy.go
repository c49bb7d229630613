// Package authz holds the pure authorization policies. Each function takes
// an already-resolved subject plus the target's ownership metadata and
// returns nil (permit) or an ATHR-003 error (deny). No I/O happens here.
package authz

import (
	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

// RequireSignedIn permits any resolved subject. It exists as a named
// checkpoint so call sites read the same as the stricter policies.
func RequireSignedIn(sub models.Subject) error {
	return nil
}

// RequireOwner permits only the owner, regardless of role. Used where admin
// override is not granted: editing a question or an answer is owner-only.
func RequireOwner(sub models.Subject, ownerUUID string) error {
	if sub.UUID == ownerUUID {
		return nil
	}
	return apperr.ErrForbidden
}

// RequireOwnerOrAdmin permits the owner or any admin. Used for deletions,
// where admin override is deliberately granted.
func RequireOwnerOrAdmin(sub models.Subject, ownerUUID string) error {
	if sub.UUID == ownerUUID || sub.Role == models.RoleAdmin {
		return nil
	}
	return apperr.ErrForbidden
}

// RequireAdmin permits admins only.
func RequireAdmin(sub models.Subject) error {
	if sub.Role == models.RoleAdmin {
		return nil
	}
	return apperr.ErrForbidden
}
