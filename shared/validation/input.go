package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
)

type stringOpts struct {
	def            *string
	minLen, maxLen *int
}

type StringOption func(*stringOpts)

func WithDefaultString(def string) StringOption {
	return func(o *stringOpts) { o.def = &def }
}

func WithMinLen(n int) StringOption {
	return func(o *stringOpts) { o.minLen = &n }
}

func WithMaxLen(n int) StringOption {
	return func(o *stringOpts) { o.maxLen = &n }
}

// ParseString extracts a string field, rejecting values outside the length bounds.
func ParseString(input map[string]any, key string, opts ...StringOption) (string, error) {
	var o stringOpts
	for _, opt := range opts {
		opt(&o)
	}

	val, ok := input[key]
	if !ok || val == nil {
		if o.def != nil {
			return *o.def, nil
		}
		return "", errors.RuleViolation(key, errors.ErrMissingField, "")
	}

	result, ok := val.(string)
	if !ok {
		result = fmt.Sprint(val)
	}
	if o.minLen != nil && len(result) < *o.minLen {
		return "", errors.NewValidationError(key, "min length error")
	}
	if o.maxLen != nil && len(result) > *o.maxLen {
		return "", errors.NewValidationError(key, "max length error")
	}
	return result, nil
}

type intOpts struct {
	def      *int64
	min, max *int64
}

type IntOption func(*intOpts)

func WithDefaultInt(def int64) IntOption {
	return func(o *intOpts) { o.def = &def }
}

func WithMin(n int64) IntOption {
	return func(o *intOpts) { o.min = &n }
}

func WithMax(n int64) IntOption {
	return func(o *intOpts) { o.max = &n }
}

// ParseInt extracts an integer field with loose coercion, then clamps it into [min, max].
func ParseInt(input map[string]any, key string, opts ...IntOption) (int64, error) {
	var o intOpts
	for _, opt := range opts {
		opt(&o)
	}

	val, ok := input[key]
	if !ok || val == nil {
		if o.def != nil {
			return *o.def, nil
		}
		return 0, errors.RuleViolation(key, errors.ErrMissingField, "")
	}

	result := Intval(val)
	if o.min != nil && result < *o.min {
		result = *o.min
	}
	if o.max != nil && result > *o.max {
		result = *o.max
	}
	return result, nil
}

// Intval converts any decoded value to an integer the loose way:
// leading digits of a string are used, anything non-numeric becomes 0.
func Intval(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return floatToInt(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return floatToInt(f)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return stringToInt(v)
	}
	return 0
}

func floatToInt(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func stringToInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// overflow saturates, a lone sign or no digits is 0
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			if s[0] == '-' {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		return 0
	}
	return n
}

// ParseSelection splits "{board_id}/{post_id}" tokens. A missing or non-numeric
// post id becomes 0 so the token simply matches nothing downstream.
func ParseSelection(tokens []string) []domain.Selection {
	result := make([]domain.Selection, 0, len(tokens))
	for _, token := range tokens {
		parts := strings.Split(token, "/")
		sel := domain.Selection{Token: token, BoardID: parts[0]}
		if len(parts) > 1 {
			sel.PostID = stringToInt(parts[1])
		}
		result = append(result, sel)
	}
	return result
}
