package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/user"
	"repairshop/internal/pkg/errs"
)

// GormUserRepository implements ports.UserRepository using GORM. With a
// tenant scope on the context the lookup is tenant-filtered by the
// tenantscope plugin; the request boundary calls it before a scope exists,
// which is the sanctioned system-scope path.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Get retrieves a user by id.
func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
