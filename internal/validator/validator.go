package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}$`)

// IsPhone 校验手机号格式（宽松的国际格式）
func IsPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true // optional field
	}
	return phoneRe.MatchString(phone)
}
