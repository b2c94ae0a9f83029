package persistent

import (
	"context"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Category, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func nameTaken(tx *gorm.DB, ownerID, name, exceptID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Category{}).
		Where("owner_id = ? AND name = ? AND id <> ?", ownerID, name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := &models.Category{
		ID:      category.ID,
		OwnerID: category.OwnerID,
		Name:    category.Name,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, categoryModel.OwnerID, categoryModel.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return entity.ErrCategoryExists
		}
		return tx.Create(categoryModel).Error
	})
	if err != nil {
		return err
	}

	category.ID = categoryModel.ID
	category.CreatedAt = categoryModel.CreatedAt
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return ToCategoryEntity(&category), nil
}

func (r *categoryRepository) Rename(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			return notFound(err)
		}

		taken, err := nameTaken(tx, category.OwnerID, name, id)
		if err != nil {
			return err
		}
		if taken {
			return entity.ErrCategoryExists
		}
		return tx.Model(&category).Update("name", name).Error
	})
}

// Delete removes the category and leaves its posts uncategorized.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

func (r *categoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	var categoryModels []models.Category
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name").Find(&categoryModels).Error
	if err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = ToCategoryEntity(&categoryModels[i])
	}
	return categories, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}
