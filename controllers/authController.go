package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/utils"
)

type AuthController struct {
	users        *database.UserRepository
	tokens       *middlewares.TokenIssuer
	secureCookie bool
	log          *zap.Logger
}

func NewAuthController(users *database.UserRepository, tokens *middlewares.TokenIssuer, secureCookie bool, log *zap.Logger) *AuthController {
	return &AuthController{users: users, tokens: tokens, secureCookie: secureCookie, log: log}
}

type registerDTO struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email" normalize:"lower"`
	Password  string `json:"password" validate:"required,min=6,max=72" normalize:"-"`
}

type loginDTO struct {
	Email    string `json:"email" validate:"required,email" normalize:"lower"`
	Password string `json:"password" validate:"required" normalize:"-"`
}

type profileDTO struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Image     *string `json:"image" validate:"omitempty,url"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=72" normalize:"-"`
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var dto registerDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	user := models.User{FirstName: dto.FirstName, LastName: dto.LastName, Email: dto.Email}
	if err := user.SetPassword(dto.Password); err != nil {
		return err
	}
	if err := ac.users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email already in use"})
		}
		return err
	}

	ac.log.Info("user registered", zap.String("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"data": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var dto loginDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	user, err := ac.users.FindByEmail(c.UserContext(), dto.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}
	if err != nil {
		return err
	}
	if err := user.ComparePassword(dto.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	token, err := ac.tokens.Issue(user.ID, user.Email, user.Role, []string(user.Permissions))
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     ac.tokens.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ac.tokens.TTL()),
		HTTPOnly: true,
		Secure:   ac.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    userView(user),
		"token":   token,
	})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     ac.tokens.CookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   ac.secureCookie,
	})
	return c.JSON(fiber.Map{
		"message": "success",
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.users.FindByID(c.UserContext(), middlewares.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": userView(user)})
}

func (ac *AuthController) UpdateMe(c *fiber.Ctx) error {
	var dto profileDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	password := dto.Password
	dto.Password = nil
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if password != nil {
		var hashed models.User
		if err := hashed.SetPassword(*password); err != nil {
			return err
		}
		updates["password"] = hashed.Password
	}

	user, err := ac.users.Update(c.UserContext(), middlewares.UserID(c), updates)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    userView(user),
	})
}

// userView is the public shape of a user.
func userView(user *models.User) fiber.Map {
	permissions := []string(user.Permissions)
	if permissions == nil {
		permissions = []string{}
	}
	return fiber.Map{
		"id":          user.ID,
		"name":        user.FullName(),
		"firstName":   user.FirstName,
		"lastName":    user.LastName,
		"email":       user.Email,
		"role":        user.Role,
		"image":       user.Image,
		"permissions": permissions,
	}
}
