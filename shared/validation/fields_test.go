package validation

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFields(t *testing.T) {
	nameRule := Rules{{Key: "field", Required: true, Type: TypeString, MinLen: 3}}

	t.Run("required and absent", func(t *testing.T) {
		err := ValidateFields(map[string]any{}, nameRule)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrMissingField))
		assert.True(t, errors.Is[*errors.ValidationError](err))
	})

	t.Run("nil counts as absent", func(t *testing.T) {
		err := ValidateFields(map[string]any{"field": nil}, nameRule)
		assert.True(t, stderrors.Is(err, errors.ErrMissingField))
	})

	t.Run("empty string bypasses min length", func(t *testing.T) {
		assert.NoError(t, ValidateFields(map[string]any{"field": ""}, nameRule))
	})

	t.Run("short string fails min length", func(t *testing.T) {
		err := ValidateFields(map[string]any{"field": "ab"}, nameRule)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shorter than min length 3")
	})

	t.Run("max length", func(t *testing.T) {
		rules := Rules{{Key: "field", Type: TypeString, MaxLen: 4}}
		assert.NoError(t, ValidateFields(map[string]any{"field": "abcd"}, rules))
		assert.Error(t, ValidateFields(map[string]any{"field": "abcde"}, rules))
	})

	t.Run("optional and absent is skipped", func(t *testing.T) {
		rules := Rules{{Key: "field", Type: TypeInteger}}
		assert.NoError(t, ValidateFields(map[string]any{"other": 1}, rules))
	})

	t.Run("type mismatch wins over length checks", func(t *testing.T) {
		rules := Rules{{Key: "field", Required: true, Type: TypeString, MaxLen: 1}}
		err := ValidateFields(map[string]any{"field": 12345}, rules)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
	})

	t.Run("empty array", func(t *testing.T) {
		rules := Rules{{Key: "select", Required: true, Type: TypeArray}}
		err := ValidateFields(map[string]any{"select": []any{}}, rules)
		assert.True(t, stderrors.Is(err, errors.ErrEmptyCollection))
		assert.NoError(t, ValidateFields(map[string]any{"select": []string{"b/1"}}, rules))
	})

	t.Run("first violation in rule order", func(t *testing.T) {
		rules := Rules{
			{Key: "a", Required: true, Type: TypeString},
			{Key: "b", Required: true, Type: TypeString},
		}
		err := ValidateFields(map[string]any{"a": 1}, rules)
		var verr *errors.ValidationError
		require.True(t, stderrors.As(err, &verr))
		assert.Equal(t, "a", verr.Field)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
	})
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		val  any
		want FieldType
	}{
		{"s", TypeString},
		{true, TypeBoolean},
		{7, TypeInteger},
		{int64(7), TypeInteger},
		{1.5, TypeDouble},
		{json.Number("12"), TypeInteger},
		{json.Number("1.2"), TypeDouble},
		{[]any{1}, TypeArray},
		{map[string]any{}, TypeObject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeOf(tt.val), "%#v", tt.val)
	}
}
