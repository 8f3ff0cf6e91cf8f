package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/utils"
)

type AccountController struct {
	accounts *database.AccountRepository
	log      *zap.Logger
}

func NewAccountController(accounts *database.AccountRepository, log *zap.Logger) *AccountController {
	return &AccountController{accounts: accounts, log: log}
}

type createAccountDTO struct {
	Name          string `json:"name" validate:"required,max=200"`
	CNIC          string `json:"cnic" validate:"required,cnic"`
	ContactNumber string `json:"contactNumber" validate:"required,max=30"`
	City          string `json:"city" validate:"required,max=100"`
	Branch        string `json:"branch" validate:"required,max=100"`
	Type          string `json:"type" validate:"required,oneof=company customer"`
}

type updateAccountDTO struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	CNIC          *string `json:"cnic" validate:"omitempty,cnic"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,min=1,max=30"`
	City          *string `json:"city" validate:"omitempty,min=1,max=100"`
	Branch        *string `json:"branch" validate:"omitempty,min=1,max=100"`
	Type          *string `json:"type" validate:"omitempty,oneof=company customer"`
}

func (ac *AccountController) GetAccounts(c *fiber.Ctx) error {
	params, err := utils.ParseListParams(c)
	if err != nil {
		return err
	}
	accounts, total, err := ac.accounts.List(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"accounts":   accounts,
		"pagination": utils.NewPagination(total, params),
	})
}

func (ac *AccountController) GetAccount(c *fiber.Ctx) error {
	account, err := ac.accounts.FindByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Account not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"account": account})
}

func (ac *AccountController) CreateAccount(c *fiber.Ctx) error {
	var dto createAccountDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	account := models.Account{
		Name:          dto.Name,
		CNIC:          dto.CNIC,
		ContactNumber: dto.ContactNumber,
		City:          dto.City,
		Branch:        dto.Branch,
		Type:          dto.Type,
	}
	if err := ac.accounts.Create(c.UserContext(), &account); err != nil {
		return accountWriteError(c, err)
	}

	ac.log.Info("account created", zap.String("account_id", account.ID), zap.String("code", account.Code))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"account": account,
	})
}

func (ac *AccountController) UpdateAccount(c *fiber.Ctx) error {
	var dto updateAccountDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	account, err := ac.accounts.Update(c.UserContext(), c.Params("id"), utils.UpdatesFromPtrDTO(&dto, nil))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Account not found"})
	}
	if err != nil {
		return accountWriteError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Account updated successfully",
		"account": account,
	})
}

func (ac *AccountController) DeleteAccount(c *fiber.Ctx) error {
	err := ac.accounts.Delete(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Account not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

func accountWriteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, database.ErrCNICTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Account with this CNIC already exists"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Account with this contact number already exists"})
	}
	return err
}
