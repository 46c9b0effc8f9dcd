package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/company-api/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, username, is_active FROM users WHERE id = ?`

	row := r.db.WithContext(ctx).Raw(query, id).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
