package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/pdv-backend/pkg/db"
	"github.com/angelmondragon/pdv-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

// Repository exposes user persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) FindByID(ctx context.Context, id string) (User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return User{}, lookupError(err, "load user")
	}
	return fromModel(row), nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&row).Error; err != nil {
		return User{}, lookupError(err, "load user by email")
	}
	return fromModel(row), nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]User, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := toModel(u)
	row.Email = NormalizeEmail(row.Email)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return User{}, errDuplicateEmail(row.Email)
		}
		return User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert user")
	}
	return fromModel(row), nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update last login")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func lookupError(err error, action string) error {
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func toModel(u User) models.User {
	return models.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CompanyID:    u.CompanyID,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromModel(row models.User) User {
	return User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		CompanyID:    row.CompanyID,
		IsActive:     row.IsActive,
		LastLoginAt:  row.LastLoginAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
