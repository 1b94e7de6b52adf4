package validation

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	input := map[string]any{"board_id": "b", "long": "abcdef"}

	v, err := ParseString(input, "board_id")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	v, err = ParseString(input, "missing", WithDefaultString("fallback"))
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, err = ParseString(input, "missing")
	assert.True(t, stderrors.Is(err, errors.ErrMissingField))

	_, err = ParseString(input, "long", WithMaxLen(5))
	assert.Error(t, err)

	_, err = ParseString(input, "board_id", WithMinLen(2))
	assert.Error(t, err)

	v, err = ParseString(input, "long", WithMinLen(1), WithMaxLen(6))
	require.NoError(t, err)
	assert.Equal(t, "abcdef", v)
}

func TestParseInt(t *testing.T) {
	input := map[string]any{"n": "42", "junk": "abc", "prefix": "12abc", "big": 500, "neg": -3}

	tests := []struct {
		name string
		key  string
		opts []IntOption
		want int64
	}{
		{"numeric string", "n", nil, 42},
		{"non numeric is zero", "junk", nil, 0},
		{"leading digits", "prefix", nil, 12},
		{"clamped to max", "big", []IntOption{WithMax(100)}, 100},
		{"clamped to min", "neg", []IntOption{WithMin(0)}, 0},
		{"inside bounds", "n", []IntOption{WithMin(0), WithMax(100)}, 42},
		{"default when absent", "nope", []IntOption{WithDefaultInt(15)}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt(input, tt.key, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseInt(input, "nope")
	assert.True(t, stderrors.Is(err, errors.ErrMissingField))
}

func TestIntval(t *testing.T) {
	assert.Equal(t, int64(3), Intval(3.9))
	assert.Equal(t, int64(1), Intval(true))
	assert.Equal(t, int64(-7), Intval(" -7"))
	assert.Equal(t, int64(0), Intval("+"))
	assert.Equal(t, int64(math.MaxInt64), Intval("99999999999999999999"))
	assert.Equal(t, int64(0), Intval([]int{1}))
}

func TestParseSelection(t *testing.T) {
	got := ParseSelection([]string{"b/12", "a/x", "nope", "c/7/extra"})
	assert.Equal(t, []domain.Selection{
		{Token: "b/12", BoardID: "b", PostID: 12},
		{Token: "a/x", BoardID: "a", PostID: 0},
		{Token: "nope", BoardID: "nope", PostID: 0},
		{Token: "c/7/extra", BoardID: "c", PostID: 7},
	}, got)
}
