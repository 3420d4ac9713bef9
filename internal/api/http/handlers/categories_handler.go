package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/customer-care/ticket-api/internal/api/dto"
	"github.com/customer-care/ticket-api/internal/service"
)

// CategoriesHandler exposes ticket categories.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// ListCategories GET /api/categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryDetail, 0, len(categories))
	for i := range categories {
		items = append(items, categoryDetail(&categories[i]))
	}
	return c.JSON(dto.Success("Categories retrieved successfully", items))
}

// CreateCategory POST /api/categories.
func (h *CategoriesHandler) CreateCategory(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), principal, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success("Category created successfully", categoryDetail(category)))
}
