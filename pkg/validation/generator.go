package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-extjs/pkg/js"
	"github.com/goliatone/go-extjs/pkg/model"
)

// Generator translates validation rules into browser-side field options.
// Each method receives the field target and the violation message to show.
type Generator interface {
	SetAsRequired(target, message string)
	SetAsSameAs(target, property, message string)
	SetAsNotSameAs(target, property, message string)
	SetDate(target, message string)
	SetDigitsOnly(target, message string)
	SetEmail(target, message string)
	SetExactLength(target string, length int, message string)
	SetLengthRange(target string, min, max int, message string)
	SetMaxLength(target string, max int, message string)
	SetMinLength(target string, min int, message string)
	SetNumberOnly(target, message string)
	SetRegExp(target, pattern, message string)
	SetValueRange(target string, min, max any, message string)
}

// Configuration is the per-form browser validation state. It is configured
// once with the form parameters and notified when the form opens and closes;
// the returned strings are scripts to emit at those points.
type Configuration interface {
	Configure(params *js.Object)
	AfterFormOpened(formID string) string
	BeforeFormClosed(formID string) string
}

// Provider creates configurations and generators for a validation flavour.
type Provider interface {
	CreateConfiguration(params *js.Object) Configuration
	CreateGenerator(cfg Configuration, attrs *js.Object) Generator
}

// Apply dispatches each rule to the matching Generator method. Rule
// parameters that cannot be parsed are reported as errors.
func Apply(gen Generator, target string, rules []model.ValidationRule) error {
	if gen == nil {
		return nil
	}
	for _, r := range rules {
		msg := Message(r)
		switch r.Kind {
		case model.ValidationRuleNonEmpty:
			gen.SetAsRequired(target, msg)
		case model.ValidationRuleEmail:
			gen.SetEmail(target, msg)
		case model.ValidationRuleDate:
			gen.SetDate(target, msg)
		case model.ValidationRuleDigits:
			gen.SetDigitsOnly(target, msg)
		case model.ValidationRuleNumber:
			gen.SetNumberOnly(target, msg)
		case model.ValidationRuleRegExp:
			gen.SetRegExp(target, r.Param(model.ParamPattern), msg)
		case model.ValidationRuleSameAs:
			gen.SetAsSameAs(target, r.Param(model.ParamProperty), msg)
		case model.ValidationRuleNotSameAs:
			gen.SetAsNotSameAs(target, r.Param(model.ParamProperty), msg)
		case model.ValidationRuleExactLength:
			n, err := intParam(r, model.ParamLength)
			if err != nil {
				return err
			}
			gen.SetExactLength(target, n, msg)
		case model.ValidationRuleMinLength:
			n, err := intParam(r, model.ParamMin)
			if err != nil {
				return err
			}
			gen.SetMinLength(target, n, msg)
		case model.ValidationRuleMaxLength:
			n, err := intParam(r, model.ParamMax)
			if err != nil {
				return err
			}
			gen.SetMaxLength(target, n, msg)
		case model.ValidationRuleLength:
			if err := applyLength(gen, target, r, msg); err != nil {
				return err
			}
		case model.ValidationRuleRange:
			min, err := RangeBound(r, model.ParamMin)
			if err != nil {
				return err
			}
			max, err := RangeBound(r, model.ParamMax)
			if err != nil {
				return err
			}
			gen.SetValueRange(target, min, max, msg)
		default:
			return fmt.Errorf("validation: unknown rule %q for %s", r.Kind, target)
		}
	}
	return nil
}

func applyLength(gen Generator, target string, r model.ValidationRule, msg string) error {
	hasMin, hasMax := r.Param(model.ParamMin) != "", r.Param(model.ParamMax) != ""
	switch {
	case hasMin && hasMax:
		min, err := intParam(r, model.ParamMin)
		if err != nil {
			return err
		}
		max, err := intParam(r, model.ParamMax)
		if err != nil {
			return err
		}
		gen.SetLengthRange(target, min, max, msg)
	case hasMin:
		min, err := intParam(r, model.ParamMin)
		if err != nil {
			return err
		}
		gen.SetMinLength(target, min, msg)
	case hasMax:
		max, err := intParam(r, model.ParamMax)
		if err != nil {
			return err
		}
		gen.SetMaxLength(target, max, msg)
	}
	return nil
}

func intParam(r model.ValidationRule, key string) (int, error) {
	raw := strings.TrimSpace(r.Param(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("validation: rule %q: invalid %s %q", r.Kind, key, raw)
	}
	return n, nil
}

// RangeBound parses a range bound into its typed value: int64, float64,
// time.Time or string. A missing bound yields nil.
func RangeBound(r model.ValidationRule, key string) (any, error) {
	raw := strings.TrimSpace(r.Param(key))
	if raw == "" {
		return nil, nil
	}
	switch r.Param(model.ParamType) {
	case RangeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("validation: range %s %q is not an integer", key, raw)
		}
		return n, nil
	case RangeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("validation: range %s %q is not a number", key, raw)
		}
		return f, nil
	case RangeDate:
		t, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("validation: range %s %q is not a date", key, raw)
		}
		return t, nil
	}
	return raw, nil
}

var dateLayouts = []string{DateLayout, "2006-01-02", "2006-01-02 15:04:05", "01/02/2006"}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
