package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lox/barocast/internal/forecast"
)

var (
	ErrInvalidReading = errors.New("invalid reading")
	ErrInvalidStation = errors.New("invalid station")
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("compass", validateCompass)
	_ = v.RegisterValidation("trend", validateTrend)
	return v
}

func isAutoTrend(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == "auto"
}

func validateTrend(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if isAutoTrend(s) {
		return true
	}
	_, ok := forecast.ParseTrend(s)
	return ok
}

func validateCompass(fl validator.FieldLevel) bool {
	_, ok := forecast.ParseWindDirection(fl.Field().String())
	return ok
}

// validationError folds every failing field into a single error wrapping
// sentinel.
func validationError(sentinel, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(fields, "; "))
}
