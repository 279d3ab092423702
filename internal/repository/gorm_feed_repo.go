package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dayavats/samvaad/internal/domain"
)

// GormPostRepository implements PostRepository using GORM.
type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	post.ID = uuid.New().String()

	model := domain.PostToModel(post)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	post.CreatedAt = model.CreatedAt
	return nil
}

func (r *GormPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	var models []domain.PostModel
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	posts := make([]domain.Post, len(models))
	for i, model := range models {
		posts[i] = *model.ToDomain()
	}
	return posts, nil
}

func (r *GormPostRepository) SetFlagged(ctx context.Context, id string, flagged bool) (*domain.Post, error) {
	result := r.db.WithContext(ctx).Model(&domain.PostModel{}).
		Where("id = ?", id).
		Update("flagged", flagged)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}

	var model domain.PostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.PostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GormStoryRepository implements StoryRepository using GORM.
type GormStoryRepository struct {
	db *gorm.DB
}

func NewGormStoryRepository(db *gorm.DB) *GormStoryRepository {
	return &GormStoryRepository{db: db}
}

func (r *GormStoryRepository) Create(ctx context.Context, story *domain.Story) error {
	story.ID = uuid.New().String()
	if story.Anonymous {
		// Anonymous stories never store an author reference.
		story.AuthorID = ""
	}

	model := domain.StoryToModel(story)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	story.CreatedAt = model.CreatedAt
	return nil
}

func (r *GormStoryRepository) List(ctx context.Context) ([]domain.Story, error) {
	var models []domain.StoryModel
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	stories := make([]domain.Story, len(models))
	for i, model := range models {
		stories[i] = *model.ToDomain()
	}
	return stories, nil
}

func (r *GormStoryRepository) SetFlagged(ctx context.Context, id string, flagged bool) (*domain.Story, error) {
	result := r.db.WithContext(ctx).Model(&domain.StoryModel{}).
		Where("id = ?", id).
		Update("flagged", flagged)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrStoryNotFound
	}

	var model domain.StoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormStoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.StoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStoryNotFound
	}
	return nil
}
