package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

const MaxCategoryName = 100

type CategoryUseCase interface {
	Create(ctx context.Context, viewer entity.Viewer, name string) (*entity.Category, error)
	Rename(ctx context.Context, viewer entity.Viewer, categoryID, name string) (*entity.Category, error)
	Delete(ctx context.Context, viewer entity.Viewer, categoryID string) error
	List(ctx context.Context, ownerID string) ([]*entity.Category, error)
}

type categoryUseCase struct {
	categoryRepo persistent.CategoryRepository
}

func NewCategoryUseCase(categoryRepo persistent.CategoryRepository) CategoryUseCase {
	return &categoryUseCase{categoryRepo: categoryRepo}
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", entity.Invalid("name", "category name is required")
	}
	if utf8.RuneCountInString(name) > MaxCategoryName {
		return "", entity.Invalid("name", "category name is too long")
	}
	return name, nil
}

func (uc *categoryUseCase) Create(ctx context.Context, viewer entity.Viewer, name string) (*entity.Category, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	category := &entity.Category{OwnerID: viewer.ID, Name: name}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *categoryUseCase) owned(ctx context.Context, viewer entity.Viewer, categoryID string) (*entity.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanModify(category.OwnerID) {
		return nil, entity.ErrForbidden
	}
	return category, nil
}

func (uc *categoryUseCase) Rename(ctx context.Context, viewer entity.Viewer, categoryID, name string) (*entity.Category, error) {
	category, err := uc.owned(ctx, viewer, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Name, err = categoryName(name); err != nil {
		return nil, err
	}
	if err := uc.categoryRepo.Rename(ctx, category.ID, category.Name); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *categoryUseCase) Delete(ctx context.Context, viewer entity.Viewer, categoryID string) error {
	category, err := uc.owned(ctx, viewer, categoryID)
	if err != nil {
		return err
	}
	return uc.categoryRepo.Delete(ctx, category.ID)
}

func (uc *categoryUseCase) List(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	return uc.categoryRepo.ListByOwner(ctx, ownerID)
}
