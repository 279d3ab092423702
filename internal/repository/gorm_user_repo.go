package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dayavats/samvaad/internal/domain"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New().String()

	model := domain.UserToModel(user)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return r.handleError(result.Error)
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByEmail retrieves a user by email.
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Update persists profile changes (name, password hash).
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":          user.Name,
			"password_hash": user.PasswordHash,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListExcept returns all users other than userID, for chat peer search.
func (r *GormUserRepository) ListExcept(ctx context.Context, userID string) ([]domain.User, error) {
	var models []domain.UserModel
	result := r.db.WithContext(ctx).
		Where("id <> ?", userID).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = *model.ToDomain()
	}
	return users, nil
}

// SetRole changes a user's role and returns the updated user.
func (r *GormUserRepository) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// SetBanned flips the ban flag and returns the updated user.
func (r *GormUserRepository) SetBanned(ctx context.Context, id string, banned bool) (*domain.User, error) {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", id).
		Update("banned", banned)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// handleError converts database-specific errors to domain errors.
func (r *GormUserRepository) handleError(err error) error {
	errStr := err.Error()
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "UNIQUE constraint") || strings.Contains(errStr, "Duplicate entry") {
		return ErrEmailExists
	}
	return err
}
