// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package comment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/pkg/pointer"
)

type fakeCommentRepository struct {
	byID    map[string]*Comment
	ordered []*Comment
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{byID: make(map[string]*Comment)}
}

func (f *fakeCommentRepository) ListForTarget(_ context.Context, _ Target, _ string) ([]*Comment, error) {
	visible := make([]*Comment, 0)
	for _, c := range f.ordered {
		if !c.IsDeleted {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (f *fakeCommentRepository) FindByID(_ context.Context, id string) (*Comment, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (f *fakeCommentRepository) Create(_ context.Context, c *Comment) error {
	if c.ID == "" {
		c.ID = "comment-" + time.Now().Format("150405.000000000")
	}
	f.byID[c.ID] = c
	f.ordered = append([]*Comment{c}, f.ordered...)
	return nil
}

func (f *fakeCommentRepository) SoftDelete(_ context.Context, id string) error {
	f.byID[id].IsDeleted = true
	return nil
}

func (f *fakeCommentRepository) ToggleLike(_ context.Context, _, _ string) (bool, int, error) {
	return true, 1, nil
}

func seed(t *testing.T, repo *fakeCommentRepository, id string, parentID *string, createdAt time.Time) *Comment {
	t.Helper()

	c := &Comment{
		ID:        id,
		UserID:    "author-1",
		MangaID:   pointer.To("manga-1"),
		ParentID:  parentID,
		Content:   "content of " + id,
		CreatedAt: createdAt,
	}
	repo.byID[id] = c
	repo.ordered = append([]*Comment{c}, repo.ordered...)
	return c
}

/*
TestListThread_Assembly verifies thread shape: top-level newest first,
replies attached oldest first, deleted comments dropped.
*/
func TestListThread_Assembly(t *testing.T) {
	repo := newFakeCommentRepository()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := seed(t, repo, "top-old", nil, base)
	newer := seed(t, repo, "top-new", nil, base.Add(time.Hour))
	replyLate := seed(t, repo, "reply-late", pointer.To("top-old"), base.Add(30*time.Minute))
	replyEarly := seed(t, repo, "reply-early", pointer.To("top-old"), base.Add(10*time.Minute))
	deleted := seed(t, repo, "top-deleted", nil, base.Add(2*time.Hour))
	deleted.IsDeleted = true

	thread, err := service.ListThread(context.Background(), Target{MangaID: "manga-1"}, "")
	require.NoError(t, err)

	require.Len(t, thread, 2)
	assert.Equal(t, newer.ID, thread[0].ID)
	assert.Equal(t, older.ID, thread[1].ID)

	require.Len(t, thread[1].Replies, 2)
	assert.Equal(t, replyEarly.ID, thread[1].Replies[0].ID)
	assert.Equal(t, replyLate.ID, thread[1].Replies[1].ID)
}

// TestListThread_RequiresTarget verifies a target is mandatory.
func TestListThread_RequiresTarget(t *testing.T) {
	service := NewService(newFakeCommentRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.ListThread(context.Background(), Target{}, "")
	require.Error(t, err)
}

/*
TestPost_TargetExclusivity verifies a comment must target exactly one of
manga or chapter.
*/
func TestPost_TargetExclusivity(t *testing.T) {
	repo := newFakeCommentRepository()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Post(context.Background(), &Comment{UserID: "u", Content: "hi"})
	require.Error(t, err)

	_, err = service.Post(context.Background(), &Comment{
		UserID:    "u",
		Content:   "hi",
		MangaID:   pointer.To("manga-1"),
		ChapterID: pointer.To("chapter-1"),
	})
	require.Error(t, err)

	created, err := service.Post(context.Background(), &Comment{
		UserID:  "u",
		Content: "hi",
		MangaID: pointer.To("manga-1"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

// TestPost_ReplyDepth verifies replies cannot nest beyond one level.
func TestPost_ReplyDepth(t *testing.T) {
	repo := newFakeCommentRepository()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	top := seed(t, repo, "top", nil, time.Now())
	reply := seed(t, repo, "reply", pointer.To(top.ID), time.Now())

	_, err := service.Post(context.Background(), &Comment{
		UserID:   "u",
		Content:  "too deep",
		MangaID:  pointer.To("manga-1"),
		ParentID: pointer.To(reply.ID),
	})
	require.Error(t, err)
}

/*
TestDelete_Permissions verifies only the author or staff may soft-delete.
*/
func TestDelete_Permissions(t *testing.T) {
	repo := newFakeCommentRepository()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	target := seed(t, repo, "victim", nil, time.Now())

	// A stranger cannot delete.
	err := service.Delete(context.Background(), target.ID, "stranger", false)
	require.Error(t, err)
	assert.False(t, target.IsDeleted)

	// Staff can.
	require.NoError(t, service.Delete(context.Background(), target.ID, "stranger", true))
	assert.True(t, target.IsDeleted)

	// The author can delete their own.
	own := seed(t, repo, "own", nil, time.Now())
	require.NoError(t, service.Delete(context.Background(), own.ID, "author-1", false))
	assert.True(t, own.IsDeleted)
}

// TestToggleLike_DeletedComment verifies a deleted comment cannot be liked.
func TestToggleLike_DeletedComment(t *testing.T) {
	repo := newFakeCommentRepository()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	target := seed(t, repo, "gone", nil, time.Now())
	target.IsDeleted = true

	_, _, err := service.ToggleLike(context.Background(), "u", target.ID)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}
