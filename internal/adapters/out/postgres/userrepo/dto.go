// Package userrepo resolves acting users from the users table. Account
// management lives elsewhere; this repository only reads.
package userrepo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/user"
)

// UserDTO is the database representation of a user.
type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides gorm's default naming convention.
func (UserDTO) TableName() string {
	return "users"
}

// TenantColumn opts the table into direct tenant scoping.
func (UserDTO) TenantColumn() string {
	return "tenant_id"
}

// toDomain reconstructs a user from its database row.
func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(id, tenantID, dto.Name, dto.Email)
}
