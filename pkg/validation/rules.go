package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-extjs/pkg/model"
)

// Range value types carried in the "type" parameter of range rules.
const (
	RangeInteger = "integer"
	RangeNumber  = "number"
	RangeDate    = "date"
	RangeString  = "string"
)

// DateLayout is the layout used to carry date bounds as rule parameters.
const DateLayout = time.RFC3339

func rule(kind string, params map[string]string) model.ValidationRule {
	return model.ValidationRule{Kind: kind, Params: params}
}

// NonEmpty requires a non-blank value.
func NonEmpty() model.ValidationRule { return rule(model.ValidationRuleNonEmpty, nil) }

// Email requires a well formed email address.
func Email() model.ValidationRule { return rule(model.ValidationRuleEmail, nil) }

// Date requires a parseable date.
func Date() model.ValidationRule { return rule(model.ValidationRuleDate, nil) }

// Digits requires the value to contain digits only.
func Digits() model.ValidationRule { return rule(model.ValidationRuleDigits, nil) }

// Number requires a numeric value.
func Number() model.ValidationRule { return rule(model.ValidationRuleNumber, nil) }

// Length bounds the value length. A negative bound is left open.
func Length(min, max int) model.ValidationRule {
	params := make(map[string]string, 2)
	if min >= 0 {
		params[model.ParamMin] = strconv.Itoa(min)
	}
	if max >= 0 {
		params[model.ParamMax] = strconv.Itoa(max)
	}
	return rule(model.ValidationRuleLength, params)
}

// ExactLength requires exactly length characters.
func ExactLength(length int) model.ValidationRule {
	return rule(model.ValidationRuleExactLength, map[string]string{model.ParamLength: strconv.Itoa(length)})
}

// MinLength requires at least min characters.
func MinLength(min int) model.ValidationRule {
	return rule(model.ValidationRuleMinLength, map[string]string{model.ParamMin: strconv.Itoa(min)})
}

// MaxLength allows at most max characters.
func MaxLength(max int) model.ValidationRule {
	return rule(model.ValidationRuleMaxLength, map[string]string{model.ParamMax: strconv.Itoa(max)})
}

// Range bounds the value between min and max inclusive. The bound type is
// taken from min: ints, floats, time.Time and strings are supported.
func Range(min, max any) model.ValidationRule {
	kind := rangeType(min)
	if min == nil {
		kind = rangeType(max)
	}
	params := map[string]string{model.ParamType: kind}
	if min != nil {
		params[model.ParamMin] = formatBound(min)
	}
	if max != nil {
		params[model.ParamMax] = formatBound(max)
	}
	return rule(model.ValidationRuleRange, params)
}

// RegExp requires the value to match pattern.
func RegExp(pattern string) model.ValidationRule {
	return rule(model.ValidationRuleRegExp, map[string]string{model.ParamPattern: pattern})
}

// SameAs requires the value to equal the sibling property.
func SameAs(property string) model.ValidationRule {
	return rule(model.ValidationRuleSameAs, map[string]string{model.ParamProperty: property})
}

// NotSameAs requires the value to differ from the sibling property.
func NotSameAs(property string) model.ValidationRule {
	return rule(model.ValidationRuleNotSameAs, map[string]string{model.ParamProperty: property})
}

// WithMessage returns a copy of r with a custom violation message.
func WithMessage(r model.ValidationRule, message string) model.ValidationRule {
	r.Message = message
	return r
}

func rangeType(v any) string {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return RangeInteger
	case float32, float64:
		return RangeNumber
	case time.Time:
		return RangeDate
	}
	return RangeString
}

func formatBound(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateLayout)
	}
	return fmt.Sprint(v)
}

// Message returns the rule's violation message, falling back to the
// default wording for its kind.
func Message(r model.ValidationRule) string {
	if r.Message != "" {
		return r.Message
	}
	min, max := r.Param(model.ParamMin), r.Param(model.ParamMax)
	switch r.Kind {
	case model.ValidationRuleNonEmpty:
		return "This is a required field"
	case model.ValidationRuleEmail:
		return "Please enter a valid email address. For example fred@domain.com"
	case model.ValidationRuleExactLength:
		return fmt.Sprintf("Field must be %s characters long", r.Param(model.ParamLength))
	case model.ValidationRuleLength:
		switch {
		case min != "" && max != "":
			return fmt.Sprintf("Field must be between %s and %s characters long", min, max)
		case min != "":
			return fmt.Sprintf("Field must be at least %s characters long", min)
		default:
			return fmt.Sprintf("Field must be less than %s characters long", max)
		}
	case model.ValidationRuleMinLength:
		return fmt.Sprintf("Field must be at least %s characters long", min)
	case model.ValidationRuleMaxLength:
		return fmt.Sprintf("Field must be less than %s characters long", max)
	case model.ValidationRuleRange:
		switch {
		case min != "" && max != "":
			return fmt.Sprintf("Field must be between %s and %s", min, max)
		case min != "":
			return fmt.Sprintf("Field must be greater than or equal to %s", min)
		default:
			return fmt.Sprintf("Field must be less than or equal to %s", max)
		}
	case model.ValidationRuleRegExp:
		return "Field has an invalid content"
	case model.ValidationRuleSameAs:
		return fmt.Sprintf("Field must be the same as %s", r.Param(model.ParamProperty))
	case model.ValidationRuleNotSameAs:
		return fmt.Sprintf("Field must not be the same as %s", r.Param(model.ParamProperty))
	case model.ValidationRuleDate:
		return "Please enter a valid date"
	case model.ValidationRuleDigits:
		return "Field must contain only digits"
	case model.ValidationRuleNumber:
		return "Please enter a valid number"
	}
	return "Field is invalid"
}
