package auth

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a back-office account. There is no public registration;
// accounts are provisioned by the seed tool or by an admin directly.
type User struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email               string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	Name                string     `gorm:"type:varchar(255)" json:"name"`
	Role                string     `gorm:"type:varchar(20);not null;default:'editor'" json:"role"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
