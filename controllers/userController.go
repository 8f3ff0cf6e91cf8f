package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/utils"
)

type UserController struct {
	users *database.UserRepository
	log   *zap.Logger
}

func NewUserController(users *database.UserRepository, log *zap.Logger) *UserController {
	return &UserController{users: users, log: log}
}

type updateUserDTO struct {
	Role        *string   `json:"role" validate:"omitempty,oneof=User Admin"`
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,oneof=accounts products invoices reports users"`
}

func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	params, err := utils.ParseListParams(c)
	if err != nil {
		return err
	}
	users, total, err := uc.users.List(c.UserContext(), params)
	if err != nil {
		return err
	}

	rows := make([]fiber.Map, 0, len(users))
	for i := range users {
		rows = append(rows, fiber.Map{
			"id":    users[i].ID,
			"name":  users[i].FullName(),
			"email": users[i].Email,
			"role":  users[i].Role,
			"image": users[i].Image,
		})
	}
	return c.JSON(fiber.Map{
		"users":      rows,
		"pagination": utils.NewPagination(total, params),
	})
}

func (uc *UserController) GetUser(c *fiber.Ctx) error {
	user, err := uc.users.FindByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": userView(user)})
}

// UpdateUser changes a user's role and module permissions. The new
// permissions take effect at the user's next login.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	var dto updateUserDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	updates := map[string]any{}
	if dto.Role != nil {
		updates["role"] = *dto.Role
	}
	if dto.Permissions != nil {
		updates["permissions"] = datatypes.JSONSlice[string](*dto.Permissions)
	}

	user, err := uc.users.Update(c.UserContext(), c.Params("id"), updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	if err != nil {
		return err
	}
	uc.log.Info("user updated",
		zap.String("user_id", user.ID),
		zap.String("by", middlewares.UserID(c)),
		zap.Strings("permissions", user.Permissions),
	)
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    userView(user),
	})
}

func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	err := uc.users.Delete(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
