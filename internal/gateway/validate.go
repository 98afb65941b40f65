package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// newValidator reports fields by their JSON names so messages match what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkBody validates the struct tags of a decoded body and reports the first failure.
func checkBody(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid request body: %w", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "notblank":
		return fmt.Errorf("%s must not be blank", fe.Field())
	case "required":
		return fmt.Errorf("%s must be set", fe.Field())
	case "email":
		return fmt.Errorf("%s %q is not a valid address", fe.Field(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

// Query checks. Each returns a caller-facing message.

func checkState(r *http.Request) error {
	raw := r.URL.Query().Get("state")
	if _, ok := models.ParseBookingState(raw); !ok {
		return domain.UnsupportedState(raw)
	}
	return nil
}

func checkSearchText(r *http.Request) error {
	if !r.URL.Query().Has("text") {
		return errors.New("text parameter is required")
	}
	return nil
}
