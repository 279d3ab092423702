package domain

import (
	"time"

	"github.com/Dayavats/samvaad/pkg/database"
	"gorm.io/gorm"
)

// Post is a public feed entry.
type Post struct {
	ID        string
	AuthorID  string
	Text      string
	ImageKey  string
	Tags      []string
	Flagged   bool
	CreatedAt time.Time
}

// Story is a short personal account, optionally anonymous. Anonymous
// stories carry no author reference at all.
type Story struct {
	ID        string
	AuthorID  string // empty when anonymous
	Text      string
	Tags      []string
	Anonymous bool
	Flagged   bool
	CreatedAt time.Time
}

// PostModel is the GORM model for the posts table.
type PostModel struct {
	ID        string               `gorm:"type:varchar(36);primaryKey"`
	AuthorID  string               `gorm:"type:varchar(36);index;not null"`
	Text      string               `gorm:"type:text;not null"`
	ImageKey  string               `gorm:"type:varchar(255)"`
	Tags      database.StringArray `gorm:"type:text"`
	Flagged   bool                 `gorm:"default:false"`
	CreatedAt time.Time            `gorm:"autoCreateTime;index"`
	DeletedAt gorm.DeletedAt       `gorm:"index"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (m *PostModel) ToDomain() *Post {
	return &Post{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Text:      m.Text,
		ImageKey:  m.ImageKey,
		Tags:      []string(m.Tags),
		Flagged:   m.Flagged,
		CreatedAt: m.CreatedAt,
	}
}

func PostToModel(p *Post) *PostModel {
	return &PostModel{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Text:      p.Text,
		ImageKey:  p.ImageKey,
		Tags:      database.StringArray(p.Tags),
		Flagged:   p.Flagged,
		CreatedAt: p.CreatedAt,
	}
}

// StoryModel is the GORM model for the stories table.
type StoryModel struct {
	ID        string               `gorm:"type:varchar(36);primaryKey"`
	AuthorID  string               `gorm:"type:varchar(36);index"`
	Text      string               `gorm:"type:text;not null"`
	Tags      database.StringArray `gorm:"type:text"`
	Anonymous bool                 `gorm:"default:false"`
	Flagged   bool                 `gorm:"default:false"`
	CreatedAt time.Time            `gorm:"autoCreateTime;index"`
	DeletedAt gorm.DeletedAt       `gorm:"index"`
}

func (StoryModel) TableName() string {
	return "stories"
}

func (m *StoryModel) ToDomain() *Story {
	return &Story{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Text:      m.Text,
		Tags:      []string(m.Tags),
		Anonymous: m.Anonymous,
		Flagged:   m.Flagged,
		CreatedAt: m.CreatedAt,
	}
}

func StoryToModel(s *Story) *StoryModel {
	return &StoryModel{
		ID:        s.ID,
		AuthorID:  s.AuthorID,
		Text:      s.Text,
		Tags:      database.StringArray(s.Tags),
		Anonymous: s.Anonymous,
		Flagged:   s.Flagged,
		CreatedAt: s.CreatedAt,
	}
}

// CreatePostRequest is the payload for POST /posts.
type CreatePostRequest struct {
	Text     string   `json:"text" binding:"required"`
	ImageKey string   `json:"image_key"`
	Tags     []string `json:"tags"`
}

// CreateStoryRequest is the payload for POST /stories.
type CreateStoryRequest struct {
	Text      string   `json:"text" binding:"required"`
	Tags      []string `json:"tags"`
	Anonymous bool     `json:"anonymous"`
}

// FlagRequest toggles the moderation flag on a post or story.
type FlagRequest struct {
	Flagged *bool `json:"flagged" binding:"required"`
}

// PostResponse is the REST view of a post.
type PostResponse struct {
	ID        string        `json:"id"`
	Author    *UserResponse `json:"author,omitempty"`
	Text      string        `json:"text"`
	ImageURL  string        `json:"image_url,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Flagged   bool          `json:"flagged"`
	CreatedAt time.Time     `json:"created_at"`
}

// StoryResponse is the REST view of a story. Author is omitted for
// anonymous stories.
type StoryResponse struct {
	ID        string        `json:"id"`
	Author    *UserResponse `json:"author,omitempty"`
	Text      string        `json:"text"`
	Tags      []string      `json:"tags,omitempty"`
	Anonymous bool          `json:"anonymous"`
	Flagged   bool          `json:"flagged"`
	CreatedAt time.Time     `json:"created_at"`
}
