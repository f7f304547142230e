package ports

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/user"
)

// UserRepository resolves acting users. With a tenant scope bound to the
// context the lookup is tenant-filtered; without one it is a system-level
// lookup, used only by the request boundary to resolve the caller's tenant
// before a scope exists.
type UserRepository interface {
	// Get retrieves a user by id. Returns errs.ObjectNotFoundError when the
	// user is absent, or invisible to the caller's tenant.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
}
