package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/f3rmion/gtb/internal/theme"
)

// ErrBadConditions is returned when shared conditions cannot be decoded.
var ErrBadConditions = errors.New("malformed conditions")

// EncodeConditions renders the non-blank conditions in the compact form
// [{"l":"de","p":"3a4"}] used to share a pattern query.
func EncodeConditions(conds []Condition) (string, error) {
	out := "[]"
	for _, c := range conds {
		if c.Blank() {
			continue
		}
		lang := c.Language
		if lang.IsDefault() {
			lang = theme.LangDefault
		}

		var err error
		out, err = sjson.Set(out, "-1", map[string]string{"l": string(lang), "p": c.Pattern})
		if err != nil {
			return "", fmt.Errorf("encode conditions: %w", err)
		}
	}
	return out, nil
}

// DecodeConditions parses conditions produced by EncodeConditions. A missing
// language selects the theme.
func DecodeConditions(s string) ([]Condition, error) {
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("decode conditions: %w", ErrBadConditions)
	}
	root := gjson.Parse(s)
	if !root.IsArray() {
		return nil, fmt.Errorf("decode conditions: %w: expected an array", ErrBadConditions)
	}

	var (
		conds []Condition
		err   error
	)
	root.ForEach(func(_, v gjson.Result) bool {
		lang, ok := theme.ParseLanguage(v.Get("l").String())
		if !ok {
			err = fmt.Errorf("decode conditions: %w: unknown language %q", ErrBadConditions, v.Get("l").String())
			return false
		}
		conds = append(conds, Condition{Language: lang, Pattern: v.Get("p").String()})
		return true
	})
	if err != nil {
		return nil, err
	}
	return conds, nil
}

// ParseCondition reads a condition written as "lang=pattern", or as a bare
// pattern for the theme.
func ParseCondition(s string) (Condition, error) {
	code, pattern, found := strings.Cut(s, "=")
	if !found {
		return Condition{Language: theme.LangDefault, Pattern: strings.TrimSpace(s)}, nil
	}

	lang, ok := theme.ParseLanguage(code)
	if !ok {
		return Condition{}, fmt.Errorf("parse condition: %w: unknown language %q", ErrBadConditions, strings.TrimSpace(code))
	}
	return Condition{Language: lang, Pattern: strings.TrimSpace(pattern)}, nil
}
