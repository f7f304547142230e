// Package user contains the acting-user entity. Users are the technicians
// and clerks of a tenant; the full account lifecycle (registration, password
// handling, roles) is managed elsewhere — the core only needs to resolve an
// acting user and their tenant.
package user

import (
	"errors"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"
)

// ErrUserIsNotConstructed is returned when a User was not created through RestoreUser.
var ErrUserIsNotConstructed = errors.New("User must be created via RestoreUser")

// User identifies an acting user within a tenant.
type User struct {
	id       kernel.UUID
	tenantID kernel.UUID
	name     string
	email    string

	isConstructed bool
}

// RestoreUser reconstructs a user from persistence.
func RestoreUser(id kernel.UUID, tenantID kernel.UUID, name string, email string) (*User, error) {
	if err := errors.Join(
		id.Validate(),
		tenantID.Validate(),
	); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &User{
		id:            id,
		tenantID:      tenantID,
		name:          name,
		email:         email,
		isConstructed: true,
	}, nil
}

// Validate ensures the user was created through the constructor.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

// ID returns the user's unique identifier.
func (u *User) ID() kernel.UUID {
	return u.id
}

// TenantID returns the tenant the user belongs to.
func (u *User) TenantID() kernel.UUID {
	return u.tenantID
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.name
}

// Email returns the user's email address.
func (u *User) Email() string {
	return u.email
}
