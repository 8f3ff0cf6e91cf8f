package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/utils"
)

type InvoiceController struct {
	invoices *database.InvoiceRepository
	accounts *database.AccountRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewInvoiceController(invoices *database.InvoiceRepository, accounts *database.AccountRepository, log *zap.Logger) *InvoiceController {
	return &InvoiceController{invoices: invoices, accounts: accounts, log: log, now: time.Now}
}

type invoiceItemDTO struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName" validate:"required,max=200"`
	BarCode      string  `json:"barCode"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	Rate         float64 `json:"rate" validate:"gte=0"`
	Total        float64 `json:"total" validate:"gte=0"`
}

type invoicePaymentDTO struct {
	Expense  float64 `json:"expense" validate:"gte=0"`
	Discount float64 `json:"discount" validate:"gte=0"`
}

type createInvoiceDTO struct {
	AccountID     string            `json:"accountId" validate:"required"`
	InvoiceNumber string            `json:"invoiceNumber" validate:"omitempty,max=64"`
	InvoiceDate   string            `json:"invoiceDate"`
	InvoiceType   string            `json:"invoiceType" validate:"omitempty,oneof=simple detailed tax"`
	Status        string            `json:"status" validate:"omitempty,oneof=pending paid cancelled"`
	Items         []invoiceItemDTO  `json:"items" validate:"required,min=1,dive"`
	Shipping      *models.Shipping  `json:"shipping"`
	Payment       invoicePaymentDTO `json:"payment"`
}

type invoiceStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending paid cancelled"`
}

func (ic *InvoiceController) GetInvoices(c *fiber.Ctx) error {
	params, err := utils.ParseListParams(c)
	if err != nil {
		return err
	}
	invoices, total, err := ic.invoices.List(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoices":   invoices,
		"pagination": utils.NewPagination(total, params),
	})
}

func (ic *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	invoice, err := ic.invoices.FindByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invoice not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoice": invoice})
}

func (ic *InvoiceController) CreateInvoice(c *fiber.Ctx) error {
	var dto createInvoiceDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)
	utils.NormalizeDTO(&dto.Payment)

	ok, err := ic.accounts.Exists(c.UserContext(), dto.AccountID)
	if err != nil {
		return err
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Account not found"})
	}

	invoiceDate := ic.now().UTC()
	if dto.InvoiceDate != "" {
		invoiceDate, err = parseInvoiceDate(dto.InvoiceDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid invoiceDate"})
		}
	}

	items, payment := buildInvoiceLines(dto.Items, dto.Payment)
	if payment.Total < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Discount exceeds invoice amount"})
	}

	invoice := models.Invoice{
		InvoiceNumber: dto.InvoiceNumber,
		InvoiceDate:   invoiceDate,
		InvoiceType:   orDefault(dto.InvoiceType, models.InvoiceTypeSimple),
		Status:        orDefault(dto.Status, models.InvoiceStatusPending),
		AccountID:     dto.AccountID,
		Items:         items,
		Payment:       payment,
	}
	if dto.Shipping != nil {
		invoice.Shipping = *dto.Shipping
	}

	if err := ic.invoices.Create(c.UserContext(), &invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Invoice number already exists"})
		}
		return err
	}

	created, err := ic.invoices.FindByID(c.UserContext(), invoice.ID)
	if err != nil {
		return err
	}
	ic.log.Info("invoice created",
		zap.String("invoice_id", created.ID),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.Float64("total", created.Payment.Total),
	)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Invoice created successfully",
		"data":    created,
	})
}

func (ic *InvoiceController) UpdateInvoiceStatus(c *fiber.Ctx) error {
	var dto invoiceStatusDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	invoice, err := ic.invoices.UpdateStatus(c.UserContext(), c.Params("id"), dto.Status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invoice not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Invoice status updated successfully",
		"invoice": invoice,
	})
}

func (ic *InvoiceController) DeleteInvoice(c *fiber.Ctx) error {
	err := ic.invoices.Delete(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invoice not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Invoice deleted successfully"})
}

// buildInvoiceLines fills missing item totals (quantity x rate) and derives
// subTotal and total = subTotal + expense - discount.
func buildInvoiceLines(in []invoiceItemDTO, pay invoicePaymentDTO) ([]models.InvoiceItem, models.Payment) {
	items := make([]models.InvoiceItem, 0, len(in))
	subTotal := decimal.Zero
	for _, it := range in {
		utils.NormalizeDTO(&it)
		total := utils.Money(it.Total)
		if total.IsZero() {
			total = utils.Money(it.Quantity).Mul(utils.Money(it.Rate))
		}
		subTotal = subTotal.Add(total)
		items = append(items, models.InvoiceItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			BarCode:      it.BarCode,
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
			Quantity:     it.Quantity,
			Rate:         it.Rate,
			Total:        utils.ToFloat(total),
		})
	}
	total := subTotal.Add(utils.Money(pay.Expense)).Sub(utils.Money(pay.Discount))
	return items, models.Payment{
		Expense:  pay.Expense,
		Discount: pay.Discount,
		SubTotal: utils.ToFloat(subTotal),
		Total:    utils.ToFloat(total),
	}
}

func parseInvoiceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
