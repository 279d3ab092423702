package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/pkg/storage"
)

func newFeedFixture(t *testing.T) (*chatFixture, FeedService) {
	t.Helper()

	f := newChatFixture(t)
	require.NoError(t, f.db.AutoMigrate(&domain.PostModel{}, &domain.StoryModel{}))

	media, err := storage.NewLocalStore(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/media",
	})
	require.NoError(t, err)

	posts := repository.NewGormPostRepository(f.db)
	stories := repository.NewGormStoryRepository(f.db)
	return f, NewFeedService(posts, stories, f.users, media, 15*time.Minute)
}

func TestCreateAndListPosts(t *testing.T) {
	r := require.New(t)
	f, svc := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "Asha", "asha@example.com")

	post, err := svc.CreatePost(ctx, author.ID, &domain.CreatePostRequest{
		Text: "it gets better",
		Tags: []string{"hope"},
	})
	r.NoError(err)
	r.NotNil(post.Author)
	r.Equal("Asha", post.Author.Name)

	list, err := svc.ListPosts(ctx)
	r.NoError(err)
	r.Len(list, 1)
	r.Equal("it gets better", list[0].Text)
}

func TestAnonymousStoryHidesAuthor(t *testing.T) {
	r := require.New(t)
	f, svc := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "Asha", "asha@example.com")

	story, err := svc.CreateStory(ctx, author.ID, &domain.CreateStoryRequest{
		Text:      "a year ago I could not get out of bed",
		Anonymous: true,
	})
	r.NoError(err)
	r.True(story.Anonymous)
	r.Nil(story.Author)

	list, err := svc.ListStories(ctx)
	r.NoError(err)
	r.Len(list, 1)
	r.Nil(list[0].Author)
}

func TestFlagAndDeletePost(t *testing.T) {
	r := require.New(t)
	f, svc := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "Asha", "asha@example.com")
	post, err := svc.CreatePost(ctx, author.ID, &domain.CreatePostRequest{Text: "spam"})
	r.NoError(err)

	flagged, err := svc.FlagPost(ctx, post.ID, true)
	r.NoError(err)
	r.True(flagged.Flagged)

	r.NoError(svc.DeletePost(ctx, post.ID))

	list, err := svc.ListPosts(ctx)
	r.NoError(err)
	r.Empty(list)
}

func TestPresignUpload(t *testing.T) {
	r := require.New(t)
	f, svc := newFeedFixture(t)

	author := f.createUser(t, "Asha", "asha@example.com")

	key, url, err := svc.PresignUpload(context.Background(), author.ID, "image/png")
	r.NoError(err)
	r.Contains(key, "uploads/"+author.ID+"/")
	r.NotEmpty(url)
}

func TestPresignUploadDisabled(t *testing.T) {
	r := require.New(t)
	f := newChatFixture(t)
	r.NoError(f.db.AutoMigrate(&domain.PostModel{}, &domain.StoryModel{}))

	svc := NewFeedService(
		repository.NewGormPostRepository(f.db),
		repository.NewGormStoryRepository(f.db),
		f.users,
		nil,
		15*time.Minute,
	)

	_, _, err := svc.PresignUpload(context.Background(), "user-a", "image/png")
	r.ErrorIs(err, ErrMediaDisabled)
}
