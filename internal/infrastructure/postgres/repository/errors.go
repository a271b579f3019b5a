package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"gorm.io/gorm"
)

// translateError приводит ошибки gorm к доменным. Требует gorm.Config{TranslateError: true}.
func translateError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, domain.ErrConcurrentModification)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// exists отличает "строки нет" от "строку обновил кто-то другой" после CAS с RowsAffected == 0.
func exists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
