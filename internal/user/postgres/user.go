package postgres

import (
	"context"

	userDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/user"
	"github.com/airotrack/fieldops/internal/user"
	"gorm.io/gorm"
)

// UserRepository persists accounts using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) All(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(rows), nil
}

func (r *UserRepository) Insert(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(user.ToDataModel(u)).Error
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(user.ToDataModel(u)).Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&userDatamodel.User{}, "id = ?", id).Error
}
