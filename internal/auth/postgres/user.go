package postgres

import (
	"errors"

	"gorm.io/gorm"

	internalErrors "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/auth"
	userDatamodel "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(email string) (*auth.Operator, string, error) {
	var row userDatamodel.User
	err := r.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", internalErrors.ErrInvalidCredentials
		}
		return nil, "", internalErrors.NewStorageError("failed to load operator", err)
	}
	return toOperator(&row), row.PasswordHash, nil
}

func (r *Repository) GetByID(id int64) (*auth.Operator, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internalErrors.ErrInvalidCredentials
		}
		return nil, internalErrors.NewStorageError("failed to load operator", err)
	}
	return toOperator(&row), nil
}

func (r *Repository) UpdatePassword(id int64, passwordHash string) error {
	err := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
	if err != nil {
		return internalErrors.NewStorageError("failed to update password", err)
	}
	return nil
}

func toOperator(row *userDatamodel.User) *auth.Operator {
	return &auth.Operator{
		ID:       row.ID,
		Email:    row.Email,
		Name:     row.Name,
		IsActive: row.IsActive,
	}
}
