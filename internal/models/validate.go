package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("survey_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("survey_time", func(fl validator.FieldLevel) bool {
		_, err := ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("survey_method", func(fl validator.FieldLevel) bool {
		return Method(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks that r can be persisted: date and time parse, the
// coordinates are finite, the species is not blank and the method, when
// given, is one of the known methods.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return fmt.Errorf("models: invalid record fields: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("models: invalid record: %w", err)
	}
	return nil
}
