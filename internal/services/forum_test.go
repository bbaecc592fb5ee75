package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
)

type fakeForumRepo struct {
	mu      sync.Mutex
	nextID  uint64
	threads map[uint64]*dto.ForumThreadDTO
	posts   map[uint64]*dto.ForumPostDTO
}

func newFakeForumRepo() *fakeForumRepo {
	return &fakeForumRepo{
		threads: make(map[uint64]*dto.ForumThreadDTO),
		posts:   make(map[uint64]*dto.ForumPostDTO),
	}
}

func (r *fakeForumRepo) GetThreads(ctx context.Context, filter types.Filter) ([]dto.ForumThreadDTO, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.ForumThreadDTO, 0, len(r.threads))
	for _, thread := range r.threads {
		out = append(out, *thread)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeForumRepo) FindThread(ctx context.Context, id uint64) (*dto.ForumThreadDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	thread, ok := r.threads[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *thread
	return &copied, nil
}

func (r *fakeForumRepo) CreateThread(ctx context.Context, title, body string, createdBy uint64) (*dto.ForumThreadDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	thread := &dto.ForumThreadDTO{ID: r.nextID, Title: title, CreatedBy: createdBy, PostCount: 1}
	r.threads[thread.ID] = thread
	r.nextID++
	r.posts[r.nextID] = &dto.ForumPostDTO{ID: r.nextID, ThreadID: thread.ID, Body: body, CreatedBy: createdBy}
	copied := *thread
	return &copied, nil
}

func (r *fakeForumRepo) DeleteThread(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.threads[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.threads, id)
	for postID, post := range r.posts {
		if post.ThreadID == id {
			delete(r.posts, postID)
		}
	}
	return nil
}

func (r *fakeForumRepo) GetPosts(ctx context.Context, threadID uint64, filter types.Filter) ([]dto.ForumPostDTO, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.ForumPostDTO, 0)
	for _, post := range r.posts {
		if post.ThreadID == threadID {
			out = append(out, *post)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeForumRepo) FindPost(ctx context.Context, id uint64) (*dto.ForumPostDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakeForumRepo) CreatePost(ctx context.Context, threadID uint64, body string, createdBy uint64) (*dto.ForumPostDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post := &dto.ForumPostDTO{ID: r.nextID, ThreadID: threadID, Body: body, CreatedBy: createdBy}
	r.posts[post.ID] = post
	copied := *post
	return &copied, nil
}

func (r *fakeForumRepo) DeletePost(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func TestCreateThreadWithOpeningPost(t *testing.T) {
	repo := newFakeForumRepo()
	broadcaster := &recordingBroadcaster{}
	service := NewForumService(repo, broadcaster, zap.NewNop())

	thread, err := service.CreateThread(context.Background(), customerActor(2), dto.CreateForumThreadDTO{
		Title: "Firmware update broke wifi",
		Body:  "After 2.1 my router drops connections.",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), thread.PostCount)

	posts, total, err := service.GetPosts(context.Background(), thread.ID, types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "After 2.1 my router drops connections.", posts[0].Body)

	assert.Equal(t, []string{events.ForumThreadCreated}, broadcaster.Types())
}

func TestDeleteThreadPermissions(t *testing.T) {
	repo := newFakeForumRepo()
	broadcaster := &recordingBroadcaster{}
	service := NewForumService(repo, broadcaster, zap.NewNop())

	author := customerActor(2)
	thread, err := service.CreateThread(context.Background(), author, dto.CreateForumThreadDTO{Title: "t", Body: "b"})
	require.NoError(t, err)

	// Another customer cannot delete it.
	err = service.DeleteThread(context.Background(), customerActor(3), thread.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The author can.
	require.NoError(t, service.DeleteThread(context.Background(), author, thread.ID))
	assert.Equal(t, []string{events.ForumThreadCreated, events.ForumThreadDeleted}, broadcaster.Types())
}

func TestDeletePostByModerator(t *testing.T) {
	repo := newFakeForumRepo()
	broadcaster := &recordingBroadcaster{}
	service := NewForumService(repo, broadcaster, zap.NewNop())

	author := customerActor(2)
	thread, err := service.CreateThread(context.Background(), author, dto.CreateForumThreadDTO{Title: "t", Body: "b"})
	require.NoError(t, err)
	post, err := service.CreatePost(context.Background(), author, thread.ID, dto.CreateForumPostDTO{Body: "follow-up"})
	require.NoError(t, err)

	moderator := &entities.User{ID: 9, Username: "mod", Role: constants.RoleModerator, Active: true}
	require.NoError(t, service.DeletePost(context.Background(), moderator, post.ID))

	_, err = repo.FindPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreatePostUnknownThread(t *testing.T) {
	service := NewForumService(newFakeForumRepo(), &recordingBroadcaster{}, zap.NewNop())

	_, err := service.CreatePost(context.Background(), customerActor(2), 99, dto.CreateForumPostDTO{Body: "b"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
