package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/internal/service"
	"github.com/Dayavats/samvaad/pkg/response"
)

// FeedHandler serves posts, stories and media uploads.
type FeedHandler struct {
	feed service.FeedService
}

// NewFeedHandler creates the feed REST handler.
func NewFeedHandler(feed service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// CreatePost handles POST /posts.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text is required")
		return
	}

	post, err := h.feed.CreatePost(c.Request.Context(), auth.GetUserID(c), &req)
	if err != nil {
		response.InternalError(c, "failed to create post")
		return
	}
	response.Created(c, post)
}

// ListPosts handles GET /posts.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	posts, err := h.feed.ListPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list posts")
		return
	}
	response.Success(c, gin.H{"posts": posts})
}

// FlagPost handles PUT /admin/posts/:id/flag.
func (h *FeedHandler) FlagPost(c *gin.Context) {
	var req domain.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "flagged is required")
		return
	}

	post, err := h.feed.FlagPost(c.Request.Context(), c.Param("id"), *req.Flagged)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, "failed to flag post")
		return
	}
	response.Success(c, post)
}

// DeletePost handles DELETE /admin/posts/:id.
func (h *FeedHandler) DeletePost(c *gin.Context) {
	if err := h.feed.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, "failed to delete post")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// CreateStory handles POST /stories.
func (h *FeedHandler) CreateStory(c *gin.Context) {
	var req domain.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text is required")
		return
	}

	story, err := h.feed.CreateStory(c.Request.Context(), auth.GetUserID(c), &req)
	if err != nil {
		response.InternalError(c, "failed to create story")
		return
	}
	response.Created(c, story)
}

// ListStories handles GET /stories.
func (h *FeedHandler) ListStories(c *gin.Context) {
	stories, err := h.feed.ListStories(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list stories")
		return
	}
	response.Success(c, gin.H{"stories": stories})
}

// FlagStory handles PUT /admin/stories/:id/flag.
func (h *FeedHandler) FlagStory(c *gin.Context) {
	var req domain.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "flagged is required")
		return
	}

	story, err := h.feed.FlagStory(c.Request.Context(), c.Param("id"), *req.Flagged)
	if err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			response.NotFound(c, "story not found")
			return
		}
		response.InternalError(c, "failed to flag story")
		return
	}
	response.Success(c, story)
}

// DeleteStory handles DELETE /admin/stories/:id.
func (h *FeedHandler) DeleteStory(c *gin.Context) {
	if err := h.feed.DeleteStory(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			response.NotFound(c, "story not found")
			return
		}
		response.InternalError(c, "failed to delete story")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// PresignUpload handles POST /media/presign.
func (h *FeedHandler) PresignUpload(c *gin.Context) {
	var req struct {
		ContentType string `json:"content_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content_type is required")
		return
	}

	key, url, err := h.feed.PresignUpload(c.Request.Context(), auth.GetUserID(c), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrMediaDisabled) {
			response.NotFound(c, "media uploads are disabled")
			return
		}
		response.InternalError(c, "failed to create upload url")
		return
	}
	response.Success(c, gin.H{"key": key, "upload_url": url})
}
