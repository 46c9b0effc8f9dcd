package user

import (
	"time"

	"github.com/frahmantamala/company-api/internal"
	userDatamodel "github.com/frahmantamala/company-api/internal/core/datamodel/user"
)

type User struct {
	ID        int64
	Username  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

var ErrNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsAnonymous: false,
		CreatedAt:   &u.CreatedAt,
	}
}
