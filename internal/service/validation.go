package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

// NewValidator returns a validator reporting fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := parseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		raw := fl.Field().String()
		if _, err := time.Parse(time.RFC3339, raw); err == nil {
			return true
		}
		_, err := time.Parse("2006-01-02", raw)
		return err == nil
	})
	_ = v.RegisterValidation("weekdays", func(fl validator.FieldLevel) bool {
		_, err := parseDays(fl.Field().String())
		return err == nil
	})
	return v
}

// Rules maps a column to its validator tag.
type Rules map[string]string

func validateStruct(v *validator.Validate, payload interface{}) error {
	if err := v.Struct(payload); err != nil {
		return invalidFrom(err)
	}
	return nil
}

// validateMap checks each ruled column of data. A value of a type the rule
// cannot handle is reported as a field error instead of reaching the client
// as a panic.
func validateMap(v *validator.Validate, data map[string]interface{}, rules Rules) error {
	if len(rules) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rules))
	for column := range rules {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	var fields []appErrors.FieldError
	for _, column := range columns {
		if msg := checkValue(v, data[column], rules[column]); msg != "" {
			fields = append(fields, appErrors.FieldError{Param: column, Msg: msg})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return appErrors.Invalid(fields...)
}

func checkValue(v *validator.Validate, value interface{}, rule string) (msg string) {
	defer func() {
		if recover() != nil {
			msg = "has an invalid type"
		}
	}()
	err := v.Var(value, rule)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return ruleMessage(verrs[0])
	}
	return err.Error()
}

func invalidFrom(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrInvalidProperties.Code, appErrors.ErrInvalidProperties.Status, appErrors.ErrInvalidProperties.Message)
	}
	fields := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		param := fe.Namespace()
		if idx := strings.Index(param, "."); idx >= 0 {
			param = param[idx+1:]
		}
		fields = append(fields, appErrors.FieldError{Param: param, Msg: ruleMessage(fe)})
	}
	return appErrors.Invalid(fields...)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match the layout %s", fe.Param())
	case "timestamp":
		return "must be an RFC 3339 timestamp or a YYYY-MM-DD date"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "weekdays":
		return "must be a comma separated list of MON..SUN"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
