package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/customer-care/ticket-api/internal/domain"
	"github.com/customer-care/ticket-api/internal/repository"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

// CategoryService manages ticket categories.
type CategoryService struct {
	categories repository.CategoryRepository
}

// CategoryInput describes a new category.
type CategoryInput struct {
	Name        string
	Description string
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListCategories returns every category ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, repoError(err, "category", "")
	}
	return categories, nil
}

// CreateCategory adds a category. Admin only.
func (s *CategoryService) CreateCategory(ctx context.Context, principal domain.Principal, input CategoryInput) (*domain.Category, error) {
	if !principal.IsAdmin {
		return nil, apperrors.NewForbidden("only admins may create categories")
	}
	category := &domain.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	problems := fieldErrors{}
	validateName(problems, category.Name)
	if err := problems.err(); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, repoError(err, "category", "")
	}
	return category, nil
}

func validateName(problems fieldErrors, name string) {
	switch {
	case name == "":
		problems.add("name", "the name field is required")
	case utf8.RuneCountInString(name) > 255:
		problems.add("name", "the name may not be greater than 255 characters")
	}
}
