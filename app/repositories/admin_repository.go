package repositories

import (
	"context"
	"errors"

	"github.com/sharikirostov/balloon-store/app/models"
	"gorm.io/gorm"
)

type AdminRepositoryImpl interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	DeleteByEmail(ctx context.Context, email string) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepositoryImpl {
	return &adminRepository{db: db}
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := conn(ctx, r.db).Where("email = ?", email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	err := conn(ctx, r.db).First(&admin, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return conn(ctx, r.db).Create(admin).Error
}

func (r *adminRepository) DeleteByEmail(ctx context.Context, email string) error {
	return conn(ctx, r.db).Where("email = ?", email).Delete(&models.Admin{}).Error
}
