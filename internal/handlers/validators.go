package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs the binding validators used by the DTOs.
// Must be called once before the router serves requests.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("refmonth", func(fl validator.FieldLevel) bool {
			return refMonthPattern.MatchString(fl.Field().String())
		})
	}
}
