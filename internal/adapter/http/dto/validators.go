package dto

import (
	"donation-platform/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("card16", validateCard16)
		_ = v.RegisterValidation("self_role", validateSelfRole)
	}
}

// validateCard16 accepts exactly sixteen ASCII digits.
func validateCard16(fl validator.FieldLevel) bool {
	return domain.ValidCardNumber(fl.Field().String())
}

// validateSelfRole accepts the roles a user may pick at sign-up.
func validateSelfRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).SelfRegisterable()
}
