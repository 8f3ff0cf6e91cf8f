package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccountTypeCompany  = "company"
	AccountTypeCustomer = "customer"
)

// Account is a customer or company invoices are issued to.
type Account struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null;index"`
	Code          string    `json:"code" gorm:"not null;uniqueIndex"`
	CNIC          string    `json:"cnic" gorm:"column:cnic;not null;uniqueIndex"`
	ContactNumber string    `json:"contactNumber" gorm:"not null;uniqueIndex"`
	City          string    `json:"city" gorm:"not null"`
	Branch        string    `json:"branch" gorm:"not null"`
	Type          string    `json:"type" gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (account *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	return
}
