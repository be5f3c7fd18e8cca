package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// storeError translates a repository error. Application errors pass through.
func storeError(err error, notFoundMsg, op string) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case isNotFound(err):
		return apperrors.NotFound(notFoundMsg)
	default:
		return apperrors.Internal(op, err)
	}
}

var validate = validator.New()

// validateStruct runs struct tag validation on service inputs.
func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}
