package service

import "github.com/stemsi/ejurnal-backend/internal/model"

// Authorize succeeds iff the identity's role is in allowed. It performs no I/O.
func Authorize(identity model.Identity, allowed ...model.Role) error {
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
