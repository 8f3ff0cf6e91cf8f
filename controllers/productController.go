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

type ProductController struct {
	categories *database.CategoryRepository
	products   *database.ProductRepository
	log        *zap.Logger
}

func NewProductController(categories *database.CategoryRepository, products *database.ProductRepository, log *zap.Logger) *ProductController {
	return &ProductController{categories: categories, products: products, log: log}
}

type createCategoryDTO struct {
	Name string `json:"name" validate:"required,max=100"`
}

type createProductDTO struct {
	Name       string           `json:"name" validate:"required,max=200"`
	CategoryID string           `json:"categoryId" validate:"required"`
	GSTRate    utils.FlexString `json:"gstRate" validate:"required,numeric"`
}

type updateProductDTO struct {
	Name       *string           `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID *string           `json:"categoryId" validate:"omitempty,min=1"`
	GSTRate    *utils.FlexString `json:"gstRate" validate:"omitempty,numeric"`
}

func (pc *ProductController) GetCategories(c *fiber.Ctx) error {
	categories, err := pc.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (pc *ProductController) CreateCategory(c *fiber.Ctx) error {
	var dto createCategoryDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	category := models.Category{Name: dto.Name}
	if err := pc.categories.Create(c.UserContext(), &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Category already exists"})
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

func (pc *ProductController) GetProducts(c *fiber.Ctx) error {
	params, err := utils.ParseListParams(c)
	if err != nil {
		return err
	}
	products, total, err := pc.products.List(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": utils.NewPagination(total, params),
	})
}

func (pc *ProductController) GetProduct(c *fiber.Ctx) error {
	product, err := pc.products.FindByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"product": product})
}

func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	var dto createProductDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	if err := pc.requireCategory(c, dto.CategoryID); err != nil {
		return err
	}

	product := models.Product{Name: dto.Name, CategoryID: dto.CategoryID, GSTRate: dto.GSTRate.String()}
	if err := pc.products.Create(c.UserContext(), &product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	var dto updateProductDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	if dto.CategoryID != nil {
		if err := pc.requireCategory(c, *dto.CategoryID); err != nil {
			return err
		}
	}
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if dto.GSTRate != nil {
		updates["gst_rate"] = dto.GSTRate.String()
	}

	product, err := pc.products.Update(c.UserContext(), c.Params("id"), updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (pc *ProductController) DeleteProduct(c *fiber.Ctx) error {
	err := pc.products.Delete(c.UserContext(), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func (pc *ProductController) requireCategory(c *fiber.Ctx, id string) error {
	ok, err := pc.categories.Exists(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Category not found")
	}
	return nil
}
