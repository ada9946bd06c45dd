package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Bangladeshi mobile numbers: 11 digits, 01 prefix, operator codes 3-9.
var bdMobileRe = regexp.MustCompile(`^01[3-9]\d{8}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bd_mobile", validateBDMobile)
	}
}

func validateBDMobile(fl validator.FieldLevel) bool {
	return bdMobileRe.MatchString(fl.Field().String())
}
