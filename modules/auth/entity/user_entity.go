package entity

import (
	"time"

	"eventhub-api/core/entity"
)

type UserRole string

const (
	RoleAttendee  UserRole = "ATTENDEE"
	RoleOrganizer UserRole = "ORGANIZER"
	RoleAdmin     UserRole = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

type User struct {
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         *string    `db:"name" json:"name,omitempty"`
	Role         UserRole   `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	entity.BaseEntity
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

type PaginatedUserEntity = entity.Pagination[User]
