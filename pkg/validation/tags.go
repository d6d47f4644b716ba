package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-extjs/pkg/model"
)

// TagName is the struct tag read by Registry.Register.
const TagName = "validate"

// ParseTag parses a `validate` tag value. Rules are separated by ";" and
// take their arguments after "=". Regular expressions keep everything after
// the first "=" so they may contain commas. rangeType supplies the bound
// type for range rules.
func ParseTag(tag, rangeType string) ([]model.ValidationRule, error) {
	var rules []model.ValidationRule
	for _, token := range strings.Split(tag, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(token, "=")
		name = strings.ToLower(strings.TrimSpace(name))

		switch name {
		case "nonempty", "required":
			rules = append(rules, NonEmpty())
		case "email":
			rules = append(rules, Email())
		case "date":
			rules = append(rules, Date())
		case "digits":
			rules = append(rules, Digits())
		case "number":
			rules = append(rules, Number())
		case "regexp", "regex":
			if !hasArg || arg == "" {
				return nil, fmt.Errorf("validation: rule %q requires a pattern", name)
			}
			rules = append(rules, RegExp(arg))
		case "sameas", "notsameas":
			arg = strings.TrimSpace(arg)
			if arg == "" {
				return nil, fmt.Errorf("validation: rule %q requires a property", name)
			}
			if name == "sameas" {
				rules = append(rules, SameAs(arg))
			} else {
				rules = append(rules, NotSameAs(arg))
			}
		case "length":
			r, err := parseLength(arg)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		case "exactlength", "minlength", "maxlength":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil {
				return nil, fmt.Errorf("validation: rule %q: invalid length %q", name, arg)
			}
			switch name {
			case "exactlength":
				rules = append(rules, ExactLength(n))
			case "minlength":
				rules = append(rules, MinLength(n))
			default:
				rules = append(rules, MaxLength(n))
			}
		case "range":
			min, max, _ := strings.Cut(arg, ",")
			min, max = strings.TrimSpace(min), strings.TrimSpace(max)
			if min == "" && max == "" {
				return nil, fmt.Errorf("validation: rule %q requires bounds", name)
			}
			if rangeType == "" {
				rangeType = RangeString
			}
			params := map[string]string{model.ParamType: rangeType}
			if min != "" {
				params[model.ParamMin] = min
			}
			if max != "" {
				params[model.ParamMax] = max
			}
			rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleRange, Params: params})
		default:
			return nil, fmt.Errorf("validation: unknown rule %q", name)
		}
	}
	return rules, nil
}

func parseLength(arg string) (model.ValidationRule, error) {
	min, max, isRange := strings.Cut(arg, ",")
	if !isRange {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return model.ValidationRule{}, fmt.Errorf("validation: rule \"length\": invalid length %q", arg)
		}
		return ExactLength(n), nil
	}

	bound := func(raw string) (int, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return -1, nil
		}
		return strconv.Atoi(raw)
	}
	lo, err := bound(min)
	if err != nil {
		return model.ValidationRule{}, fmt.Errorf("validation: rule \"length\": invalid min %q", min)
	}
	hi, err := bound(max)
	if err != nil {
		return model.ValidationRule{}, fmt.Errorf("validation: rule \"length\": invalid max %q", max)
	}
	if lo < 0 && hi < 0 {
		return model.ValidationRule{}, fmt.Errorf("validation: rule \"length\" requires bounds")
	}
	return Length(lo, hi), nil
}
