package persistent

import (
	"errors"

	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrNotFound
	}
	return err
}
