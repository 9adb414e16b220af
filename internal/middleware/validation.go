package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// clockPattern matches 24h "HH:MM" clock strings with minute precision.
var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// clockTime is a validator.Func for the "clocktime" binding tag.
func clockTime(fl validator.FieldLevel) bool {
	return clockPattern.MatchString(fl.Field().String())
}

// RegisterValidations installs custom binding validations on gin's validator
// engine. Called once during bootstrap.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("clocktime", clockTime)
	}
}
