package app

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// supportedLanguages mirrors the set the client offers in its language
// pickers.
var supportedLanguages = map[string]bool{
	"english":    true,
	"spanish":    true,
	"french":     true,
	"german":     true,
	"mandarin":   true,
	"japanese":   true,
	"korean":     true,
	"hindi":      true,
	"russian":    true,
	"portuguese": true,
	"arabic":     true,
	"italian":    true,
	"turkish":    true,
	"dutch":      true,
}

var validLanguage validator.Func = func(fl validator.FieldLevel) bool {
	return supportedLanguages[strings.ToLower(fl.Field().String())]
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("language", validLanguage)
	}
}
