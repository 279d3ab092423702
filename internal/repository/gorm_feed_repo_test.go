package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dayavats/samvaad/internal/domain"
)

func TestPostRepositoryLifecycle(t *testing.T) {
	r := require.New(t)
	repo := NewGormPostRepository(openTestDB(t))
	ctx := context.Background()

	post := &domain.Post{
		AuthorID: "user-a",
		Text:     "it gets better",
		Tags:     []string{"hope", "recovery"},
	}
	r.NoError(repo.Create(ctx, post))
	r.NotEmpty(post.ID)

	list, err := repo.List(ctx)
	r.NoError(err)
	r.Len(list, 1)
	r.Equal([]string{"hope", "recovery"}, list[0].Tags)

	flagged, err := repo.SetFlagged(ctx, post.ID, true)
	r.NoError(err)
	r.True(flagged.Flagged)

	r.NoError(repo.Delete(ctx, post.ID))

	list, err = repo.List(ctx)
	r.NoError(err)
	r.Empty(list)

	_, err = repo.SetFlagged(ctx, "no-such-id", true)
	r.ErrorIs(err, ErrPostNotFound)
}

func TestStoryRepositoryAnonymous(t *testing.T) {
	r := require.New(t)
	repo := NewGormStoryRepository(openTestDB(t))
	ctx := context.Background()

	story := &domain.Story{
		Text:      "a year ago I could not get out of bed",
		Anonymous: true,
	}
	r.NoError(repo.Create(ctx, story))

	list, err := repo.List(ctx)
	r.NoError(err)
	r.Len(list, 1)
	r.True(list[0].Anonymous)
	r.Empty(list[0].AuthorID)
}

func TestStoryRepositoryFlagAndDelete(t *testing.T) {
	r := require.New(t)
	repo := NewGormStoryRepository(openTestDB(t))
	ctx := context.Background()

	story := &domain.Story{AuthorID: "user-a", Text: "my story"}
	r.NoError(repo.Create(ctx, story))

	flagged, err := repo.SetFlagged(ctx, story.ID, true)
	r.NoError(err)
	r.True(flagged.Flagged)

	r.NoError(repo.Delete(ctx, story.ID))
	err = repo.Delete(ctx, story.ID)
	r.ErrorIs(err, ErrStoryNotFound)
}
