package validation

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	structValidator *validator.Validate
	once            sync.Once
)

// Validator returns the shared go-playground validator with the json tag
// used as the field name and the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := RegisterCustomValidations(v); err != nil {
			panic(fmt.Sprintf("validation: register custom rules: %v", err))
		}
		structValidator = v
	})
	return structValidator
}

func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("nonneg", isNonNegativeDecimal); err != nil {
		return err
	}
	if err := v.RegisterValidation("precision", fitsPrecision); err != nil {
		return err
	}
	return nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		return field.Elem().Kind() != reflect.String || strings.TrimSpace(field.Elem().String()) != ""
	}
	return true
}

func isNonNegativeDecimal(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !v.IsNegative()
	case *decimal.Decimal:
		return v == nil || !v.IsNegative()
	}
	return true
}

// fitsPrecision checks a decimal against a "precision:scale" parameter,
// matching a NUMERIC(precision, scale) column.
func fitsPrecision(fl validator.FieldLevel) bool {
	precision, scale, err := parsePrecision(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("validation: bad precision param %q: %v", fl.Param(), err))
	}
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return FitsNumeric(v, precision, scale)
	case *decimal.Decimal:
		return v == nil || FitsNumeric(*v, precision, scale)
	}
	return true
}

func parsePrecision(param string) (int32, int32, error) {
	p, s, ok := strings.Cut(param, ":")
	if !ok {
		return 0, 0, fmt.Errorf("want precision:scale")
	}
	precision, err := strconv.ParseInt(p, 10, 32)
	if err != nil {
		return 0, 0, err
	}
	scale, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, 0, err
	}
	if scale < 0 || scale > precision {
		return 0, 0, fmt.Errorf("scale must be within 0..precision")
	}
	return int32(precision), int32(scale), nil
}

// FitsNumeric reports whether d can be stored in a NUMERIC(precision, scale)
// column without overflow or rounding.
func FitsNumeric(d decimal.Decimal, precision, scale int32) bool {
	if !d.Equal(d.Truncate(scale)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, precision-scale))
}

// Struct validates dto against its `validate` tags and converts failures
// into a VALIDATION_ERROR keyed by json field name.
func Struct(dto interface{}) *errors.AppError {
	err := Validator().Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error(), errors.ErrCodeValidationFailed)
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, translate(fe))
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: out})
}

func translate(fe validator.FieldError) errors.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field), Code: string(errors.ErrCodeRequired)}
	case "oneof":
		return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")), Code: string(errors.ErrCodeInvalidEnum)}
	case "nonneg", "gte", "min":
		return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s is out of range", field), Code: string(errors.ErrCodeOutOfRange)}
	case "email":
		return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s must be a valid email", field), Code: string(errors.ErrCodeValidationFailed)}
	case "precision":
		precision, scale, _ := parsePrecision(fe.Param())
		return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s allows at most %d integer digits and %d decimal places", field, precision-scale, scale), Code: string(errors.ErrCodeOutOfRange)}
	case "max":
		return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s must not exceed %s characters", field, fe.Param()), Code: string(errors.ErrCodeValidationFailed)}
	}
	return errors.ValidationError{Field: field, Message: fmt.Sprintf("%s failed %s check", field, fe.Tag()), Code: string(errors.ErrCodeValidationFailed)}
}

// DecodeStrict decodes a JSON body into dst, rejecting fields dst does not
// declare. The rejected field is reported as the offending field.
func DecodeStrict(r io.Reader, dst interface{}) *errors.AppError {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		const prefix = "json: unknown field "
		msg := err.Error()
		if strings.HasPrefix(msg, prefix) {
			field := strings.Trim(strings.TrimPrefix(msg, prefix), `"`)
			return errors.NewValidationFieldError(field, fmt.Sprintf("%s cannot be set", field), errors.ErrCodeUnknownField)
		}
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return errors.NewValidationFieldError(typeErr.Field, fmt.Sprintf("%s has an invalid type", typeErr.Field), errors.ErrCodeValidationFailed)
		}
		if stderrors.Is(err, io.EOF) {
			return errors.NewValidationError("Request body is empty", errors.ErrCodeValidationFailed)
		}
		return errors.NewValidationError("Invalid request body", errors.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}
