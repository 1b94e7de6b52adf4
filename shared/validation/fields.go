package validation

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/itchan-dev/modcore/shared/errors"
)

type FieldType string

const (
	TypeString  FieldType = "string"
	TypeArray   FieldType = "array"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeDouble  FieldType = "double"
	TypeObject  FieldType = "object"
)

// Rule constrains one key of an untrusted input map.
// MinLen and MaxLen apply to strings only, zero disables the bound.
type Rule struct {
	Key      string
	Required bool
	Type     FieldType
	MinLen   int
	MaxLen   int
}

// Rules are checked in slice order, the first violation is returned.
type Rules []Rule

// ValidateFields checks input against rules without modifying it.
// A nil value counts as absent. Empty strings skip the MinLen check.
func ValidateFields(input map[string]any, rules Rules) error {
	for _, rule := range rules {
		val, ok := input[rule.Key]
		if !ok || val == nil {
			if rule.Required {
				return errors.RuleViolation(rule.Key, errors.ErrMissingField, "")
			}
			continue
		}

		actual := TypeOf(val)
		if actual != rule.Type {
			return errors.RuleViolation(rule.Key, errors.ErrTypeMismatch, fmt.Sprintf("got %s, want %s", actual, rule.Type))
		}

		switch rule.Type {
		case TypeString:
			n := len(val.(string))
			if rule.MaxLen > 0 && n > rule.MaxLen {
				return errors.NewValidationError(rule.Key, "length %d is longer than max length %d", n, rule.MaxLen)
			}
			if rule.MinLen > 0 && n > 0 && n < rule.MinLen {
				return errors.NewValidationError(rule.Key, "length %d is shorter than min length %d", n, rule.MinLen)
			}
		case TypeArray:
			if reflect.ValueOf(val).Len() == 0 {
				return errors.RuleViolation(rule.Key, errors.ErrEmptyCollection, "")
			}
		}
	}
	return nil
}

// TypeOf names the runtime type of a decoded input value.
// json.Number is an integer when it parses as one, a double otherwise.
func TypeOf(val any) FieldType {
	switch v := val.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return TypeInteger
		}
		return TypeDouble
	}

	switch reflect.ValueOf(val).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeDouble
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	}
	return FieldType(reflect.TypeOf(val).String())
}
