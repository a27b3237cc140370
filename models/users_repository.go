package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// UpsertUser creates the user or refreshes the profile fields of an existing one.
func (r *UsersRepository) UpsertUser(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
		}, clause.Returning{}).
		Create(user).Error; err != nil {
		return fmt.Errorf("upsert user: %w", translateError(err))
	}
	return nil
}
