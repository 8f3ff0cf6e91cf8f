package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"

	DefaultUserImage = "https://png.pngtree.com/png-vector/20190710/ourmid/pngtree-user-vector-avatar-png-image_1541962.jpg"
)

type User struct {
	ID          string                      `json:"id" gorm:"primaryKey"`
	FirstName   string                      `json:"firstName" gorm:"not null"`
	LastName    string                      `json:"lastName" gorm:"not null"`
	Email       string                      `json:"email" gorm:"uniqueIndex;not null"`
	Password    []byte                      `json:"-" gorm:"not null"`
	Role        string                      `json:"role" gorm:"type:varchar(10);not null"`
	Image       string                      `json:"image"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	if user.Image == "" {
		user.Image = DefaultUserImage
	}
	if user.Permissions == nil {
		user.Permissions = datatypes.JSONSlice[string]{}
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return
}

func (user *User) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func (user *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return nil
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}
