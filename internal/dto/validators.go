package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// moneyValidator accepts string fields carrying a non-negative decimal value,
// the wire format of salary_range.
func moneyValidator(fl validator.FieldLevel) bool {
	v, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !v.IsNegative()
}

// RegisterValidators installs custom binding validations on gin's validator
// engine. Call once at startup.
func RegisterValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("money", moneyValidator)
	}
	return nil
}
