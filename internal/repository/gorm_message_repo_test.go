package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageAppendAndList(t *testing.T) {
	r := require.New(t)
	db := openTestDB(t)
	conversations := NewGormConversationRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	conv, _, err := conversations.CreateOrGet(ctx, "user-a", "user-b")
	r.NoError(err)

	hello, err := messages.Append(ctx, conv.ID, "user-a", "hello")
	r.NoError(err)
	r.NotEmpty(hello.ID)
	r.Equal("user-a", hello.SenderID)
	r.False(hello.CreatedAt.IsZero())

	hi, err := messages.Append(ctx, conv.ID, "user-b", "hi")
	r.NoError(err)
	r.Greater(hi.Seq, hello.Seq)

	list, err := messages.ListForConversation(ctx, conv.ID)
	r.NoError(err)
	r.Len(list, 2)
	r.Equal("hello", list[0].Text)
	r.Equal("hi", list[1].Text)
}

func TestMessageAppendOrderIsStable(t *testing.T) {
	r := require.New(t)
	db := openTestDB(t)
	conversations := NewGormConversationRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	conv, _, err := conversations.CreateOrGet(ctx, "user-a", "user-b")
	r.NoError(err)

	for i := 0; i < 10; i++ {
		sender := "user-a"
		if i%2 == 1 {
			sender = "user-b"
		}
		_, err := messages.Append(ctx, conv.ID, sender, fmt.Sprintf("message %d", i))
		r.NoError(err)
	}

	list, err := messages.ListForConversation(ctx, conv.ID)
	r.NoError(err)
	r.Len(list, 10)
	for i := 0; i < 10; i++ {
		r.Equal(fmt.Sprintf("message %d", i), list[i].Text)
		if i > 0 {
			r.Greater(list[i].Seq, list[i-1].Seq)
		}
	}
}

func TestMessageAppendRejectsEmptyText(t *testing.T) {
	r := require.New(t)
	db := openTestDB(t)
	conversations := NewGormConversationRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	conv, _, err := conversations.CreateOrGet(ctx, "user-a", "user-b")
	r.NoError(err)

	_, err = messages.Append(ctx, conv.ID, "user-a", "")
	r.ErrorIs(err, ErrEmptyText)

	_, err = messages.Append(ctx, conv.ID, "user-a", "   \t\n")
	r.ErrorIs(err, ErrEmptyText)

	list, err := messages.ListForConversation(ctx, conv.ID)
	r.NoError(err)
	r.Empty(list)
}

func TestMessageAppendUnknownConversation(t *testing.T) {
	r := require.New(t)
	messages := NewGormMessageRepository(openTestDB(t))

	_, err := messages.Append(context.Background(), "no-such-id", "user-a", "hello")
	r.ErrorIs(err, ErrConversationNotFound)
}

func TestMessageAppendInactiveConversation(t *testing.T) {
	r := require.New(t)
	db := openTestDB(t)
	conversations := NewGormConversationRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	conv, _, err := conversations.CreateOrGet(ctx, "user-a", "user-b")
	r.NoError(err)
	r.NoError(conversations.Deactivate(ctx, conv.ID))

	_, err = messages.Append(ctx, conv.ID, "user-a", "hello")
	r.ErrorIs(err, ErrConversationNotFound)
}

func TestMessageGetByID(t *testing.T) {
	r := require.New(t)
	db := openTestDB(t)
	conversations := NewGormConversationRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()

	conv, _, err := conversations.CreateOrGet(ctx, "user-a", "user-b")
	r.NoError(err)

	msg, err := messages.Append(ctx, conv.ID, "user-a", "hello")
	r.NoError(err)

	got, err := messages.GetByID(ctx, msg.ID)
	r.NoError(err)
	r.Equal("hello", got.Text)

	_, err = messages.GetByID(ctx, "no-such-id")
	r.ErrorIs(err, ErrMessageNotFound)
}

func TestListMessagesUnknownConversation(t *testing.T) {
	r := require.New(t)
	messages := NewGormMessageRepository(openTestDB(t))

	_, err := messages.ListForConversation(context.Background(), "no-such-id")
	r.ErrorIs(err, ErrConversationNotFound)
}
