package model

import "time"

// User roles. Role is stored as an opaque string and compared by exact match.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User statuses. Only active users may authenticate.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never plaintext
	FullName  string    `json:"fullName"`
	UserType  string    `json:"userType" gorm:"not null;default:student"`
	Status    string    `json:"status" gorm:"not null;default:active"`
	PhotoPath string    `json:"photoPath"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (u *User) IsAdmin() bool {
	return u.UserType == RoleAdmin
}

func (u *User) IsStudent() bool {
	return u.UserType == RoleStudent
}
