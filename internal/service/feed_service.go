package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dayavats/samvaad/internal/audit"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/pkg/log"
	"github.com/Dayavats/samvaad/pkg/storage"
)

type feedService struct {
	posts     repository.PostRepository
	stories   repository.StoryRepository
	users     repository.UserRepository
	media     storage.MediaStore
	urlExpiry time.Duration
}

// NewFeedService wires the post/story surface. media may be nil when
// image uploads are disabled.
func NewFeedService(
	posts repository.PostRepository,
	stories repository.StoryRepository,
	users repository.UserRepository,
	media storage.MediaStore,
	urlExpiry time.Duration,
) FeedService {
	return &feedService{
		posts:     posts,
		stories:   stories,
		users:     users,
		media:     media,
		urlExpiry: urlExpiry,
	}
}

func (s *feedService) CreatePost(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.PostResponse, error) {
	post := &domain.Post{
		AuthorID: authorID,
		Text:     req.Text,
		ImageKey: req.ImageKey,
		Tags:     req.Tags,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.toPostResponse(ctx, post), nil
}

func (s *feedService) ListPosts(ctx context.Context) ([]domain.PostResponse, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, *s.toPostResponse(ctx, &posts[i]))
	}
	return out, nil
}

func (s *feedService) FlagPost(ctx context.Context, id string, flagged bool) (*domain.PostResponse, error) {
	post, err := s.posts.SetFlagged(ctx, id, flagged)
	if err != nil {
		return nil, err
	}
	audit.LogWithTarget(ctx, audit.ActionFlag, "", id, fmt.Sprintf("post flagged=%v", flagged))
	return s.toPostResponse(ctx, post), nil
}

func (s *feedService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogWithTarget(ctx, audit.ActionDelete, "", id, "post deleted")
	return nil
}

// CreateStory stores a story. Anonymous stories drop the author
// reference before the row is written, so authorship is unrecoverable.
func (s *feedService) CreateStory(ctx context.Context, authorID string, req *domain.CreateStoryRequest) (*domain.StoryResponse, error) {
	story := &domain.Story{
		AuthorID:  authorID,
		Text:      req.Text,
		Tags:      req.Tags,
		Anonymous: req.Anonymous,
	}
	if story.Anonymous {
		story.AuthorID = ""
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	return s.toStoryResponse(ctx, story), nil
}

func (s *feedService) ListStories(ctx context.Context) ([]domain.StoryResponse, error) {
	stories, err := s.stories.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.StoryResponse, 0, len(stories))
	for i := range stories {
		out = append(out, *s.toStoryResponse(ctx, &stories[i]))
	}
	return out, nil
}

func (s *feedService) FlagStory(ctx context.Context, id string, flagged bool) (*domain.StoryResponse, error) {
	story, err := s.stories.SetFlagged(ctx, id, flagged)
	if err != nil {
		return nil, err
	}
	audit.LogWithTarget(ctx, audit.ActionFlag, "", id, fmt.Sprintf("story flagged=%v", flagged))
	return s.toStoryResponse(ctx, story), nil
}

func (s *feedService) DeleteStory(ctx context.Context, id string) error {
	if err := s.stories.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogWithTarget(ctx, audit.ActionDelete, "", id, "story deleted")
	return nil
}

// PresignUpload mints a storage key and an upload URL for it. The
// client uploads directly and then references the key in a post.
func (s *feedService) PresignUpload(ctx context.Context, userID, contentType string) (string, string, error) {
	if s.media == nil {
		return "", "", ErrMediaDisabled
	}

	key := fmt.Sprintf("uploads/%s/%s", userID, uuid.New().String())
	url, err := s.media.UploadURL(ctx, key, contentType, s.urlExpiry)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

func (s *feedService) toPostResponse(ctx context.Context, post *domain.Post) *domain.PostResponse {
	resp := &domain.PostResponse{
		ID:        post.ID,
		Text:      post.Text,
		Tags:      post.Tags,
		Flagged:   post.Flagged,
		CreatedAt: post.CreatedAt,
	}

	if user, err := s.users.GetByID(ctx, post.AuthorID); err == nil {
		resp.Author = &domain.UserResponse{ID: user.ID, Name: user.Name, Role: user.Role}
	}

	if post.ImageKey != "" && s.media != nil {
		url, err := s.media.DownloadURL(ctx, post.ImageKey, s.urlExpiry)
		if err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("image_key", post.ImageKey).Msg("image url generation failed")
		} else {
			resp.ImageURL = url
		}
	}
	return resp
}

func (s *feedService) toStoryResponse(ctx context.Context, story *domain.Story) *domain.StoryResponse {
	resp := &domain.StoryResponse{
		ID:        story.ID,
		Text:      story.Text,
		Tags:      story.Tags,
		Anonymous: story.Anonymous,
		Flagged:   story.Flagged,
		CreatedAt: story.CreatedAt,
	}

	if !story.Anonymous && story.AuthorID != "" {
		if user, err := s.users.GetByID(ctx, story.AuthorID); err == nil {
			resp.Author = &domain.UserResponse{ID: user.ID, Name: user.Name, Role: user.Role}
		}
	}
	return resp
}
