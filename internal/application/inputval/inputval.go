// Package inputval validates request-shaped input structs with struct tags and
// reports failures as a *club.ValidationError keyed by JSON field path.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"clubconnect/internal/domain/club"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterValidation("dayofweek", func(fl validator.FieldLevel) bool {
			_, err := club.ParseDayOfWeek(fl.Field().String())
			return err == nil
		})
		v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
			_, err := club.ParseClockTime(fl.Field().String())
			return err == nil
		})
		v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return v
}

// Struct validates s against its `validate` tags.
// PRE: s is a struct or pointer to struct
// POST: Returns nil if valid, *club.ValidationError with one entry per failing field otherwise
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	verr := &club.ValidationError{}
	for _, fe := range ves {
		verr.Add(fieldPath(fe), message(fe))
	}
	return verr.OrNil()
}

// fieldPath drops the root struct name: "ClubInput.timeSlots[0].startTime" -> "timeSlots[0].startTime".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "dayofweek":
		return club.ErrInvalidDay.Error()
	case "clocktime":
		return fe.Field() + " must be a 24-hour HH:MM time"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
