package auth

import (
	"context"

	"github.com/angelmondragon/gestor-pedidos/internal/repo"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and rewrites usuarios rows.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, code int64, encoded string) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("usuario = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdatePassword(ctx context.Context, code int64, encoded string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("codigo_usuario = ?", code).
		Update("clave", encoded).Error
}
