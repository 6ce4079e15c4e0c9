package assessment

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	levelTag  = "level"
	levelText = "must be one of EE, ME, AE, BE"
)

func init() {
	_ = core.Validate.RegisterValidation(levelTag, levelValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, levelTag, levelText)
}

// levelValidation checks that the value is a known competency band.
func levelValidation(fl validator.FieldLevel) bool {
	return Level(fl.Field().String()).normalize().Valid()
}
