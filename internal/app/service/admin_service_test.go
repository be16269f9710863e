package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
)

type adminFixture struct {
	svc      *AdminService
	users    *fakeUserRepo
	messages *fakeMessageRepo
	likes    *fakeLikeRepo
	comments *fakeCommentRepo
	admin    *model.User
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	db, _ := newTxMock(t)
	f := &adminFixture{
		users:    newFakeUserRepo(),
		messages: newFakeMessageRepo(),
		likes:    newFakeLikeRepo(),
		comments: &fakeCommentRepo{},
	}
	stats := &fakeStatsRepo{stats: model.Stats{TotalUsers: 2, ActiveUsers: 2}}
	f.svc = NewAdminService(f.users, f.messages, f.likes, f.comments, stats, db, log)

	f.admin = &model.User{Username: "root", Nickname: "Root", Role: model.RoleAdmin, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), f.admin))
	return f
}

func TestAdminService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	bob := &model.User{Username: "bob", Nickname: "Bob", Role: model.RoleUser, IsActive: true}
	require.NoError(t, f.users.Create(ctx, bob))
	require.NoError(t, f.messages.Create(ctx, &model.Message{Content: "x", AuthorID: bob.ID}))

	role := "admin"
	disabled := false
	view, err := f.svc.UpdateUser(ctx, f.admin, bob.ID, AdminUpdateUserRequest{Role: &role, IsActive: &disabled})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, view.Role)
	assert.False(t, view.IsActive)
	assert.Equal(t, int64(1), view.MessagesCount)

	bad := "owner"
	_, err = f.svc.UpdateUser(ctx, f.admin, bob.ID, AdminUpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = f.svc.UpdateUser(ctx, f.admin, 99, AdminUpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAdminService_CannotDisableSelf(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	disabled := false
	_, err := f.svc.UpdateUser(ctx, f.admin, f.admin.ID, AdminUpdateUserRequest{IsActive: &disabled})
	assert.ErrorIs(t, err, ErrCannotDisableSelf)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	nick := "Boss"
	view, err := f.svc.UpdateUser(ctx, f.admin, f.admin.ID, AdminUpdateUserRequest{Nickname: &nick})
	require.NoError(t, err)
	assert.Equal(t, "Boss", view.Nickname)
}

func TestAdminService_DeleteMessageCascades(t *testing.T) {
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	db, mock := newTxMock(t)
	users := newFakeUserRepo()
	messages := newFakeMessageRepo()
	likes := newFakeLikeRepo()
	comments := &fakeCommentRepo{}
	svc := NewAdminService(users, messages, likes, comments, &fakeStatsRepo{}, db, log)
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	keep := &model.Message{Content: "keep", AuthorID: 2}
	gone := &model.Message{Content: "gone", AuthorID: 2}
	require.NoError(t, messages.Create(ctx, keep))
	require.NoError(t, messages.Create(ctx, gone))
	likes.likes[likeKey{3, gone.ID}] = true
	likes.likes[likeKey{3, keep.ID}] = true
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "c", MessageID: gone.ID}))

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.DeleteMessage(ctx, admin, gone.ID))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []int64{gone.ID}, messages.deleted)
	assert.Len(t, likes.likes, 1)
	assert.Empty(t, comments.comments)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, admin, gone.ID), common.ErrNotFound)
}

func TestAdminService_DeleteMessageRollsBack(t *testing.T) {
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	db, mock := newTxMock(t)
	messages := newFakeMessageRepo()
	comments := &fakeCommentRepo{deleteErr: errors.New("locked")}
	svc := NewAdminService(newFakeUserRepo(), messages, newFakeLikeRepo(), comments, &fakeStatsRepo{}, db, log)

	msg := &model.Message{Content: "x", AuthorID: 2}
	require.NoError(t, messages.Create(ctx, msg))

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := svc.DeleteMessage(ctx, &model.User{ID: 1}, msg.ID)
	assert.ErrorContains(t, err, "locked")
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, messages.deleted)
}

func TestAdminService_ListAndStats(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	list, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "root", list[0].Username)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
}

type memStorage struct {
	saved map[string][]byte
	err   error
}

func (m *memStorage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.saved[key] = data
	return "/uploads/" + key, nil
}

func TestUploadService_UploadImage(t *testing.T) {
	ctx := context.Background()
	store := &memStorage{saved: map[string][]byte{}}
	svc := NewUploadService(store, 1024)

	resp, err := svc.UploadImage(ctx, "Holiday Photo.PNG", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
	require.Len(t, store.saved, 1)

	_, err = svc.UploadImage(ctx, "notes.txt", "text/plain", strings.NewReader("hi"), 2)
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = svc.UploadImage(ctx, "big.jpg", "image/jpeg", strings.NewReader("x"), 2048)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.ErrorIs(t, err, common.ErrBadRequest)
	require.Len(t, store.saved, 1, "oversized files are not stored")

	store.err = errors.New("bucket gone")
	_, err = svc.UploadImage(ctx, "a.gif", "image/gif", strings.NewReader("g"), 1)
	assert.ErrorContains(t, err, "bucket gone")
}

func TestImageExtension(t *testing.T) {
	assert.Equal(t, "jpg", imageExtension("cat.jpg", "image/jpeg"))
	assert.Equal(t, "webp", imageExtension("../../etc/x.WEBP", "image/webp"))
	assert.NotEmpty(t, imageExtension("noext", "image/png"))
	assert.Equal(t, "img", imageExtension("noext", "image/x-unknown-kind"))
}
