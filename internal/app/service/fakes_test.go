package service

import (
	"context"
	"sync"
	"time"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
	"message_wall/internal/platform/database"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return common.ErrConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now().UTC()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) HasAdmin(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.IsAdmin() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	f.mu.Lock()
	u, ok := f.users[id]
	if !ok {
		f.mu.Unlock()
		return nil, common.ErrNotFound
	}
	if upd.Nickname != nil {
		u.Nickname = *upd.Nickname
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	f.mu.Unlock()
	return f.FindByID(ctx, id)
}

func (f *fakeUserRepo) ListWithMessageCounts(ctx context.Context) ([]model.AdminUserView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.AdminUserView{}
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, model.AdminUserView{User: *u})
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	messages map[int64]*model.Message
	nextID   int64
	deleted  []int64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[int64]*model.Message{}}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = time.Now().UTC()
	cp := *msg
	f.messages[msg.ID] = &cp
	return nil
}

func (f *fakeMessageRepo) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessageRepo) ListForViewer(ctx context.Context, viewerID int64) ([]model.MessageView, error) {
	out := []model.MessageView{}
	for id := f.nextID; id >= 1; id-- {
		if m, ok := f.messages[id]; ok {
			out = append(out, model.MessageView{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt})
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	for _, m := range f.messages {
		if m.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) Delete(ctx context.Context, tx database.DBTX, id int64) error {
	if _, ok := f.messages[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.messages, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type likeKey struct{ user, message int64 }

type fakeLikeRepo struct {
	likes     map[likeKey]bool
	createErr error
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]bool{}}
}

func (f *fakeLikeRepo) Create(ctx context.Context, tx database.DBTX, like *model.Like) error {
	if f.createErr != nil {
		return f.createErr
	}
	k := likeKey{like.UserID, like.MessageID}
	if f.likes[k] {
		return common.ErrConflict
	}
	f.likes[k] = true
	return nil
}

func (f *fakeLikeRepo) Delete(ctx context.Context, tx database.DBTX, userID, messageID int64) (bool, error) {
	k := likeKey{userID, messageID}
	if !f.likes[k] {
		return false, nil
	}
	delete(f.likes, k)
	return true, nil
}

func (f *fakeLikeRepo) DeleteByMessage(ctx context.Context, tx database.DBTX, messageID int64) error {
	for k := range f.likes {
		if k.message == messageID {
			delete(f.likes, k)
		}
	}
	return nil
}

type fakeCommentRepo struct {
	comments  []model.Comment
	deleteErr error
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = int64(len(f.comments) + 1)
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByMessage(ctx context.Context, messageID int64) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range f.comments {
		if c.MessageID == messageID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) DeleteByMessage(ctx context.Context, tx database.DBTX, messageID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.MessageID != messageID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return nil
}

type fakeStatsRepo struct {
	stats model.Stats
}

func (f *fakeStatsRepo) Totals(ctx context.Context) (*model.Stats, error) {
	s := f.stats
	return &s, nil
}
