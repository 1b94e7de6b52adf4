package handler

import (
	"fmt"
	"net/http"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/utils"
	"github.com/itchan-dev/modcore/shared/validation"
)

// decodeInput reads a loosely typed JSON object, it is validated with Rules.
func decodeInput(r *http.Request) (map[string]any, error) {
	input := map[string]any{}
	if err := utils.Decode(r.Body, &input); err != nil {
		return nil, err
	}
	return input, nil
}

var selectionRules = validation.Rules{
	{Key: "posts", Required: true, Type: validation.TypeArray},
}

// parseSelection reads the "posts" list of "{board}/{post}" tokens.
func parseSelection(input map[string]any) ([]domain.Selection, error) {
	if err := validation.ValidateFields(input, selectionRules); err != nil {
		return nil, err
	}
	raw, ok := input["posts"].([]any)
	if !ok {
		return nil, errors.RuleViolation("posts", errors.ErrTypeMismatch, "")
	}

	tokens := make([]string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			tokens[i] = s
		} else {
			tokens[i] = fmt.Sprint(v)
		}
	}
	return validation.ParseSelection(tokens), nil
}
