package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceTypeSimple   = "simple"
	InvoiceTypeDetailed = "detailed"
	InvoiceTypeTax      = "tax"

	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is an issued sales document. Reports read it, never write it.
type Invoice struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	InvoiceNumber string        `json:"invoiceNumber" gorm:"not null;uniqueIndex"`
	InvoiceDate   time.Time     `json:"invoiceDate" gorm:"not null;index"`
	InvoiceType   string        `json:"invoiceType" gorm:"type:varchar(20);not null;default:'simple';index"`
	Status        string        `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AccountID     string        `json:"accountId" gorm:"not null;index"`
	Account       Account       `json:"account" gorm:"foreignKey:AccountID;references:ID"`
	Items         []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Shipping      Shipping      `json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`
	Payment       Payment       `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type InvoiceItem struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	InvoiceID    string  `json:"-" gorm:"index"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName" gorm:"not null"`
	BarCode      string  `json:"barCode"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Quantity     float64 `json:"quantity"`
	Rate         float64 `json:"rate" gorm:"type:numeric(12,2)"`
	Total        float64 `json:"total" gorm:"type:numeric(12,2)"`
}

type Shipping struct {
	BarCode string `json:"barCode"`
	Cartons int    `json:"cartons"`
	Bags    int    `json:"bags"`
	Notes   string `json:"notes"`
}

type Payment struct {
	Expense  float64 `json:"expense" gorm:"type:numeric(12,2)"`
	Discount float64 `json:"discount" gorm:"type:numeric(12,2)"`
	SubTotal float64 `json:"subTotal" gorm:"type:numeric(12,2)"`
	Total    float64 `json:"total" gorm:"type:numeric(12,2)"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	return
}

// BeforeSave keeps invoice dates in UTC so range queries compare like with like.
func (invoice *Invoice) BeforeSave(tx *gorm.DB) (err error) {
	invoice.InvoiceDate = invoice.InvoiceDate.UTC()
	return
}
