package commands

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "duedate", func(fl validator.FieldLevel) bool {
		_, err := value_objects.ParseDueDate(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "priority", func(fl validator.FieldLevel) bool {
		_, err := value_objects.ParsePriority(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateStruct checks s and converts the first failure into a
// *task.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	ve := ves[0]
	return &task.ValidationError{Field: ve.Field(), Err: fieldError(ve)}
}

func fieldError(ve validator.FieldError) error {
	switch ve.Tag() {
	case "notblank", "required":
		if ve.Field() == "title" {
			return task.ErrEmptyTitle
		}
		return errors.New("required")
	case "duedate":
		return value_objects.ErrInvalidDueDate
	case "priority":
		return value_objects.ErrInvalidPriority
	case "max":
		return fmt.Errorf("must be at most %s characters", ve.Param())
	case "min":
		return fmt.Errorf("must be at least %s characters", ve.Param())
	case "oneof":
		return fmt.Errorf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Errorf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Errorf("failed %s validation", ve.Tag())
	}
}
