package parser

import (
	"strconv"
	"strings"

	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/types"
)

// ParseScalar turns a raw value fragment into a typed value.
// A double quoted fragment is text with the quotes removed and nothing else
// unescaped, true/false in any case is a bool, anything else must be a
// base-10 integer.
func ParseScalar(text string) (types.Value, error) {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return types.Text(text[1 : len(text)-1]), nil
	}

	switch strings.ToLower(text) {
	case "true":
		return types.Bool(true), nil
	case "false":
		return types.Bool(false), nil
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return types.Value{}, errs.Parse("Invalid value: %s", text)
	}
	return types.Int(i), nil
}

// SplitValues splits a comma separated fragment on commas outside of double
// quotes. Quotes are kept in the fragments.
func SplitValues(text string) ([]string, error) {
	values := []string{}
	var current strings.Builder
	in_quotes := false

	for _, char := range text {
		switch {
		case char == '"':
			in_quotes = !in_quotes
			current.WriteRune(char)
		case char == ',' && !in_quotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(char)
		}
	}

	if in_quotes {
		return nil, errs.Parse("Invalid value: unclosed quote")
	}

	if current.Len() > 0 {
		values = append(values, strings.TrimSpace(current.String()))
	}

	if len(values) == 0 {
		return nil, errs.Parse("Invalid value: no values")
	}
	for _, v := range values {
		if len(v) == 0 {
			return nil, errs.Parse("Invalid value: empty value")
		}
	}
	return values, nil
}

// ParseValueList parses a parenthesized values list: `("Ann", 30, true)`.
func ParseValueList(text string) ([]types.Value, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") || len(text) < 2 {
		return nil, errs.Parse("Invalid values list: %s", text)
	}

	raw_values, err := SplitValues(strings.TrimSpace(text[1 : len(text)-1]))
	if err != nil {
		return nil, err
	}

	values := make([]types.Value, 0, len(raw_values))
	for _, raw := range raw_values {
		v, err := ParseScalar(raw)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseCondition parses the tokens of a `column = value` clause.
// Everything before the first "=" token is the column name, everything after
// it is joined with single spaces and parsed as a scalar.
func ParseCondition(tokens []string) (*types.Predicate, error) {
	eq_idx := -1
	for i, token := range tokens {
		if token == "=" {
			eq_idx = i
			break
		}
	}
	if len(tokens) < 3 || eq_idx < 0 {
		return nil, invalidConditionError(tokens)
	}

	column := strings.TrimSpace(strings.Join(tokens[:eq_idx], ""))
	value_text := strings.TrimSpace(strings.Join(tokens[eq_idx+1:], " "))
	if len(column) == 0 || len(value_text) == 0 {
		return nil, invalidConditionError(tokens)
	}

	value, err := ParseScalar(value_text)
	if err != nil {
		return nil, err
	}
	return &types.Predicate{Column: column, Value: value}, nil
}

func invalidConditionError(tokens []string) error {
	return errs.Parse("Invalid condition: %s", strings.Join(tokens, " "))
}
