package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	Student  UserRole = "student"
	Teacher  UserRole = "teacher"
	Guardian UserRole = "guardian"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name       string   `gorm:"size:100;not null" json:"Name"`
	Email      string   `gorm:"size:100;unique;not null" json:"Email"`
	Password   string   `gorm:"size:100;not null" json:"-"`
	Role       UserRole `gorm:"size:16;default:'student';index" json:"Role"`
	GuardianID *uint    `gorm:"index;type:bigint unsigned" json:"GuardianId,omitempty"` // 仅学生账号使用，指向监护人账号
	Language   string   `gorm:"size:10;default:'en'" json:"Language"`
	Avatar     string   `gorm:"size:255" json:"avatar"`
	Disabled   bool     `gorm:"default:false" json:"Disabled"`

	LastLogin time.Time `json:"LastLogin"`
	LastSeen  time.Time `json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if u.LastLogin.IsZero() {
		u.LastLogin = now
	}
	if u.LastSeen.IsZero() {
		u.LastSeen = now
	}
	return
}
