package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-extjs/pkg/binding"
	"github.com/goliatone/go-extjs/pkg/model"
)

// Issue is a server-side validation failure with its location.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SiblingFunc resolves a property next to the value being checked. It backs
// sameAs and notSameAs rules.
type SiblingFunc func(property string) (any, bool)

var emailPattern = regexp.MustCompile(`^[\w!#$%&'*+/=?^` + "`" + `{|}~-]+(?:\.[\w!#$%&'*+/=?^` + "`" + `{|}~-]+)*@(?:[\w](?:[\w-]*[\w])?\.)+[\w](?:[\w-]*[\w])?$`)

var patternCache sync.Map // map[string]*regexp.Regexp

// Check evaluates rules against value and returns the violation messages in
// rule order. Blank values only fail nonEmpty, so optional fields can still
// carry format rules.
func Check(rules []model.ValidationRule, value any, sibling SiblingFunc) []string {
	var out []string
	text, blank := textOf(value)
	for _, r := range rules {
		if r.Kind != model.ValidationRuleNonEmpty && blank {
			if r.Kind != model.ValidationRuleSameAs && r.Kind != model.ValidationRuleNotSameAs {
				continue
			}
		}
		if !passes(r, value, text, blank, sibling) {
			out = append(out, Message(r))
		}
	}
	return out
}

// CheckAll evaluates every rule registered under prefix against the values
// in bag. Sibling properties resolve against the same parent path.
func CheckAll(reg *Registry, prefix string, bag binding.PropertyBag) []Issue {
	var issues []Issue
	for _, path := range reg.Fields(prefix) {
		rules := reg.Rules(path)
		if len(rules) == 0 {
			continue
		}
		value, _ := bag.Lookup(path)
		parent, name := splitPath(path)
		sibling := func(property string) (any, bool) {
			if parent == "" {
				return bag.Lookup(property)
			}
			return bag.Lookup(parent + "." + property)
		}
		for _, msg := range Check(rules, value, sibling) {
			issues = append(issues, Issue{Path: path, Field: name, Message: msg})
		}
	}
	return issues
}

// IssuesByPath groups issue messages by path, the shape expected by error
// mapping helpers.
func IssuesByPath(issues []Issue) map[string][]string {
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(issues))
	for _, issue := range issues {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

func splitPath(path string) (string, string) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func passes(r model.ValidationRule, value any, text string, blank bool, sibling SiblingFunc) bool {
	length := utf8.RuneCountInString(text)
	switch r.Kind {
	case model.ValidationRuleNonEmpty:
		return !blank
	case model.ValidationRuleEmail:
		return emailPattern.MatchString(text)
	case model.ValidationRuleExactLength:
		n, err := intParam(r, model.ParamLength)
		return err == nil && length == n
	case model.ValidationRuleMinLength:
		n, err := intParam(r, model.ParamMin)
		return err == nil && length >= n
	case model.ValidationRuleMaxLength:
		n, err := intParam(r, model.ParamMax)
		return err == nil && length <= n
	case model.ValidationRuleLength:
		if r.Param(model.ParamMin) != "" {
			if n, err := intParam(r, model.ParamMin); err != nil || length < n {
				return false
			}
		}
		if r.Param(model.ParamMax) != "" {
			if n, err := intParam(r, model.ParamMax); err != nil || length > n {
				return false
			}
		}
		return true
	case model.ValidationRuleRange:
		return inRange(r, value, text)
	case model.ValidationRuleRegExp:
		re, err := compilePattern(r.Param(model.ParamPattern))
		return err == nil && re.MatchString(text)
	case model.ValidationRuleSameAs, model.ValidationRuleNotSameAs:
		if sibling == nil {
			return true
		}
		other, _ := sibling(r.Param(model.ParamProperty))
		otherText, _ := textOf(other)
		same := otherText == text
		if r.Kind == model.ValidationRuleSameAs {
			return same
		}
		return !same
	case model.ValidationRuleDate:
		if _, ok := value.(time.Time); ok {
			return true
		}
		_, err := parseDate(text)
		return err == nil
	case model.ValidationRuleDigits:
		for _, ch := range text {
			if !unicode.IsDigit(ch) {
				return false
			}
		}
		return true
	case model.ValidationRuleNumber:
		_, err := strconv.ParseFloat(text, 64)
		return err == nil
	}
	return true
}

func inRange(r model.ValidationRule, value any, text string) bool {
	min, err := RangeBound(r, model.ParamMin)
	if err != nil {
		return false
	}
	max, err := RangeBound(r, model.ParamMax)
	if err != nil {
		return false
	}

	switch r.Param(model.ParamType) {
	case RangeInteger, RangeNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return false
		}
		return (min == nil || f >= toFloat(min)) && (max == nil || f <= toFloat(max))
	case RangeDate:
		t, ok := value.(time.Time)
		if !ok {
			parsed, err := parseDate(text)
			if err != nil {
				return false
			}
			t = parsed
		}
		return (min == nil || !t.Before(min.(time.Time))) && (max == nil || !t.After(max.(time.Time)))
	}
	return (min == nil || text >= min.(string)) && (max == nil || text <= max.(string))
}

func toFloat(v any) float64 {
	switch typed := v.(type) {
	case int64:
		return float64(typed)
	case float64:
		return typed
	}
	return 0
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}

// textOf formats value the way it would travel in a form post and reports
// whether it is blank.
func textOf(value any) (string, bool) {
	if value == nil {
		return "", true
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", true
		}
		rv = rv.Elem()
	}
	value = rv.Interface()
	switch typed := value.(type) {
	case string:
		return typed, strings.TrimSpace(typed) == ""
	case time.Time:
		if typed.IsZero() {
			return "", true
		}
		return typed.Format(DateLayout), false
	case []string:
		return strings.Join(typed, ","), len(typed) == 0
	}
	text := fmt.Sprint(value)
	return text, text == ""
}
