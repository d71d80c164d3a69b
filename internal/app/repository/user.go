package repository

import (
	"context"

	"finishline/internal/app/ds"
)

func (r *Repository) GetUser(ctx context.Context, id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]ds.User, error) {
	var users []ds.User
	err := r.db.WithContext(ctx).Order("user_id").Find(&users).Error
	return users, err
}
