package model

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	Nickname       string    `json:"nickname"`
	Avatar         string    `json:"avatar"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AdminUserView is a user row as the moderation panel lists it.
type AdminUserView struct {
	User
	MessagesCount int64 `json:"messages_count"`
}

// UserUpdate carries optional changes; nil fields are left untouched.
type UserUpdate struct {
	Nickname *string
	Avatar   *string
	Role     *Role
	IsActive *bool
}
